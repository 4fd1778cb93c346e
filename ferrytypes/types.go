// Package ferrytypes provides shared type definitions for the s3ferry module.
package ferrytypes

import (
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"go.uber.org/zap"
)

// ObjectACL represents the access control list applied to uploaded objects.
type ObjectACL string

// Access policies an upload run can apply
const (
	// ACLPublicRead grants public read access
	ACLPublicRead ObjectACL = "public-read"

	// ACLAuthenticatedRead grants authenticated users read access
	ACLAuthenticatedRead ObjectACL = "authenticated-read"
)

// Outcome describes the result of one upload attempt. Exactly one Outcome
// is emitted per enumerated file, whether the attempt succeeded or failed.
type Outcome struct {
	// Path is the local path of the file that was attempted
	Path string

	// Key is the destination object key the file was mapped to
	Key string

	// Bytes is the number of bytes transferred (zero on failure)
	Bytes int64

	// Duration is the wall time the attempt took
	Duration time.Duration

	// Err is the failure cause, nil on success
	Err error
}

// Failed reports whether the attempt failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// CompletionSink receives one event per completed upload attempt.
// Implementations must be safe for concurrent use: every worker delivers its
// outcomes to the same sink.
type CompletionSink interface {
	// TaskDone is called exactly once per attempted file
	TaskDone(outcome Outcome)
}

// NopSink is a CompletionSink that discards all events. It stands in
// whenever a run has no progress consumer so workers never have to check
// for a missing sink.
type NopSink struct{}

// TaskDone implements CompletionSink.
func (NopSink) TaskDone(Outcome) {}

// ClientConfig holds the configuration for creating a Client.
// Values are set through Option functions.
type ClientConfig struct {
	// Region is the AWS region; defaults to the credential chain's region
	// or us-east-1
	Region string

	// Endpoint is a custom S3 endpoint URL for S3-compatible services
	Endpoint string

	// AccessKeyID and SecretAccessKey select static credentials; when both
	// are empty the default AWS credential chain is used
	AccessKeyID     string
	SecretAccessKey string

	// MaxRetries is the retry budget for individual SDK calls
	MaxRetries int

	// Timeout bounds individual HTTP requests; zero means no timeout
	Timeout time.Duration

	// ForcePathStyle switches to path-style addressing
	ForcePathStyle bool

	// CustomAWSConfig overrides the default configuration loading
	CustomAWSConfig *aws.Config

	// CustomHTTPClient overrides the HTTP client used by the SDK
	CustomHTTPClient *http.Client

	// Filesystem is the filesystem abstraction files are read through
	Filesystem fs.Filesystem

	// Logger receives operational logging; defaults to a no-op logger
	Logger *zap.Logger
}

// Option is a functional option for configuring the Client.
type Option func(*ClientConfig)

// TreeConfig holds the per-run configuration for UploadTree and Enumerate.
// Values are set through TreeOption functions.
type TreeConfig struct {
	// Include holds regular expressions a path must match (any of them)
	// to be uploaded; empty means every path passes
	Include []string

	// Exclude holds regular expressions that remove matching paths;
	// exclusion always wins over inclusion
	Exclude []string

	// Concurrency is the number of upload workers; must be positive
	Concurrency int

	// StripPrefix is the leading path removed from each file before the
	// destination key is built; defaults to the uploaded directory
	StripPrefix string

	// ACL is the access policy applied to every uploaded object
	ACL ObjectACL

	// Sink receives one Outcome per attempted file
	Sink CompletionSink

	// ProgressWriter, when set, renders the updating progress line
	ProgressWriter io.Writer
}

// TreeOption is a functional option for configuring a single upload run.
type TreeOption func(*TreeConfig)

// TreeResult summarizes an upload run.
type TreeResult struct {
	// Total is the number of files that passed the filter
	Total int

	// Completed is the number of files whose upload was attempted
	Completed int

	// Errors is the number of failed uploads
	Errors int

	// Failed holds the local paths of the files that failed, in worker order
	Failed []string

	// Duration is how long the run took
	Duration time.Duration
}

// HasFailures reports whether any file failed to upload.
func (r *TreeResult) HasFailures() bool {
	return len(r.Failed) > 0
}
