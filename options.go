// Package s3ferry provides functional options for configuring client and
// upload behavior. These options follow the functional options pattern for
// clean, composable configuration.
package s3ferry

import (
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"go.uber.org/zap"

	"github.com/s3ferry/s3ferry/ferrytypes"
)

// WithRegion sets the AWS region for S3 operations.
// If not specified, uses the default AWS region from the credential chain.
func WithRegion(region string) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services such as MinIO, or for local
// testing with LocalStack. Most such services also need WithForcePathStyle.
func WithEndpoint(endpoint string) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual
// hosting. Default is false (uses virtual-hosted style).
func WithForcePathStyle(forcePathStyle bool) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithStaticCredentials authenticates with a fixed access key pair instead
// of the default AWS credential chain.
func WithStaticCredentials(accessKeyID, secretAccessKey string) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.AccessKeyID = accessKeyID
		c.SecretAccessKey = secretAccessKey
	}
}

// WithMaxRetries sets the maximum number of retry attempts the SDK makes
// for an individual request. Default is 3 retries. This is SDK-level
// request retrying; a file whose upload ultimately fails is never retried.
func WithMaxRetries(maxRetries int) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the timeout for individual S3 requests.
// Default is no timeout (0). Values should be positive durations.
func WithTimeout(timeout time.Duration) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithCustomHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts and proxies,
// and takes precedence over WithTimeout.
func WithCustomHTTPClient(client *http.Client) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
// Use this when you need fine-grained control over AWS SDK configuration.
func WithAWSConfig(config *aws.Config) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithFilesystem sets a custom filesystem implementation for file operations.
// This allows using in-memory filesystems for testing or virtual filesystems.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithLogger sets the logger operational events are written to.
// If not specified, logging is disabled.
func WithLogger(logger *zap.Logger) ferrytypes.Option {
	return func(c *ferrytypes.ClientConfig) {
		c.Logger = logger
	}
}

// WithInclude adds inclusion patterns for the upload run. A file is
// uploaded only if its full path matches at least one inclusion pattern;
// no patterns means every file is included. Patterns are unanchored
// regular expressions.
func WithInclude(patterns ...string) ferrytypes.TreeOption {
	return func(c *ferrytypes.TreeConfig) {
		c.Include = append(c.Include, patterns...)
	}
}

// WithExclude adds exclusion patterns for the upload run. A file whose
// full path matches any exclusion pattern is skipped even when it matches
// an inclusion pattern. Patterns are unanchored regular expressions.
func WithExclude(patterns ...string) ferrytypes.TreeOption {
	return func(c *ferrytypes.TreeConfig) {
		c.Exclude = append(c.Exclude, patterns...)
	}
}

// WithConcurrency sets the number of upload workers for the run.
// Default is 1. The value must be positive; UploadTree rejects the run
// otherwise.
func WithConcurrency(concurrency int) ferrytypes.TreeOption {
	return func(c *ferrytypes.TreeConfig) {
		c.Concurrency = concurrency
	}
}

// WithStripPrefix sets the leading path stripped from each file before its
// destination key is composed. Defaults to the uploaded directory itself,
// so keys are relative to it.
func WithStripPrefix(prefix string) ferrytypes.TreeOption {
	return func(c *ferrytypes.TreeConfig) {
		c.StripPrefix = prefix
	}
}

// WithPrivateObjects uploads objects with the authenticated-read access
// policy instead of the default public-read.
func WithPrivateObjects(private bool) ferrytypes.TreeOption {
	return func(c *ferrytypes.TreeConfig) {
		if private {
			c.ACL = ferrytypes.ACLAuthenticatedRead
		} else {
			c.ACL = ferrytypes.ACLPublicRead
		}
	}
}

// WithProgress renders the updating progress line to w during the run.
func WithProgress(w io.Writer) ferrytypes.TreeOption {
	return func(c *ferrytypes.TreeConfig) {
		c.ProgressWriter = w
	}
}

// WithCompletionSink registers a sink receiving one Outcome per attempted
// file. The sink must be safe for concurrent use.
func WithCompletionSink(sink ferrytypes.CompletionSink) ferrytypes.TreeOption {
	return func(c *ferrytypes.TreeConfig) {
		c.Sink = sink
	}
}
