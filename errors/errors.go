// Package errors provides error types and handling for upload operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents an upload operation error with context about the
// operation that failed. It wraps the underlying AWS SDK or filesystem
// error with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "scan", "verify", "put")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the S3 object key (if applicable)
	Key string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3ferry.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3ferry.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3ferry.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3ferry.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Err:    err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// NewConfigError creates a configuration Error carrying the given message.
// Configuration errors are reported before any work starts.
func NewConfigError(message string) *Error {
	return NewError("configure", ErrInvalidConfig).WithMessage(message)
}

// Sentinel errors for upload run failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidConfig indicates invalid run configuration, such as a
	// non-positive concurrency level or an uncompilable filter pattern
	ErrInvalidConfig = errors.New("s3ferry: invalid configuration")

	// ErrDirectoryNotFound indicates that the source directory does not
	// exist or is not a directory
	ErrDirectoryNotFound = errors.New("s3ferry: directory not found")

	// ErrBucketUnreachable indicates that the destination bucket could not
	// be reached with the configured credentials
	ErrBucketUnreachable = errors.New("s3ferry: bucket unreachable")

	// ErrInvalidBucketName indicates that the bucket name is not valid
	ErrInvalidBucketName = errors.New("s3ferry: invalid bucket name")

	// ErrInvalidCredentials indicates that no usable AWS credentials could
	// be established
	ErrInvalidCredentials = errors.New("s3ferry: invalid credentials")

	// ErrCancelled indicates that the run was interrupted before all
	// queued files were attempted
	ErrCancelled = errors.New("s3ferry: upload cancelled")
)

// IsInvalidConfig checks if an error indicates invalid run configuration.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsDirectoryNotFound checks if an error indicates a missing source directory.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsDirectoryNotFound(err error) bool {
	return errors.Is(err, ErrDirectoryNotFound)
}

// IsBucketUnreachable checks if an error indicates the bucket could not be reached.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsBucketUnreachable(err error) bool {
	return errors.Is(err, ErrBucketUnreachable)
}

// IsInvalidBucketName checks if an error indicates an invalid bucket name.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidBucketName(err error) bool {
	return errors.Is(err, ErrInvalidBucketName)
}

// IsCancelled checks if an error indicates the run was interrupted.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
