package store

import (
	"context"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/s3ferry/s3ferry/errors"
	"github.com/s3ferry/s3ferry/ferrytypes"
	"github.com/s3ferry/s3ferry/internal/s3api"
)

// DefaultContentType is used when content detection cannot classify a file.
const DefaultContentType = "application/octet-stream"

// Bucket is a handle binding one S3 session to one bucket. Files are read
// through the filesystem abstraction so tests can run against an in-memory
// tree.
type Bucket struct {
	api        s3api.S3API
	name       string
	filesystem fs.Filesystem
}

// New creates a bucket handle for the given session.
func New(api s3api.S3API, name string, filesystem fs.Filesystem) *Bucket {
	return &Bucket{
		api:        api,
		name:       name,
		filesystem: filesystem,
	}
}

// Name returns the bucket name.
func (b *Bucket) Name() string {
	return b.name
}

// Verify checks that the bucket exists and is reachable with the session's
// credentials. It is called once before any upload work starts.
func (b *Bucket) Verify(ctx context.Context) error {
	_, err := b.api.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.name),
	})
	if err != nil {
		return errors.NewBucketError("verify", b.name, errors.ErrBucketUnreachable).
			WithMessage(err.Error())
	}
	return nil
}

// PutFile streams the file at path to the given object key and returns the
// number of bytes transferred. The content type is sniffed from the file
// contents with an extension-based fallback.
func (b *Bucket) PutFile(ctx context.Context, key, path string) (int64, error) {
	info, err := b.filesystem.Stat(path)
	if err != nil {
		return 0, errors.NewObjectError("put", b.name, key, err)
	}

	contentType := b.detectContentType(path)

	file, err := b.filesystem.Open(path)
	if err != nil {
		return 0, errors.NewObjectError("put", b.name, key, err)
	}
	defer file.Close()

	_, err = b.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return 0, errors.NewObjectError("put", b.name, key, err)
	}

	return info.Size(), nil
}

// SetACL applies the access policy to an existing object.
func (b *Bucket) SetACL(ctx context.Context, key string, acl ferrytypes.ObjectACL) error {
	_, err := b.api.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACL(acl),
	})
	if err != nil {
		return errors.NewObjectError("acl", b.name, key, err)
	}
	return nil
}

// detectContentType sniffs the file's content type, falling back to the
// extension when the file cannot be read.
func (b *Bucket) detectContentType(path string) string {
	file, err := b.filesystem.Open(path)
	if err != nil {
		return detectContentTypeFromExtension(path)
	}
	defer file.Close()

	// Read first 512 bytes for content detection
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if n > 0 {
		if mt := mimetype.Detect(buf[:n]); mt != nil {
			return mt.String()
		}
	}

	return detectContentTypeFromExtension(path)
}

func detectContentTypeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return DefaultContentType
}
