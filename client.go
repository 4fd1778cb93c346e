// Package s3ferry provides client initialization and configuration.
package s3ferry

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"go.uber.org/zap"

	"github.com/s3ferry/s3ferry/errors"
	"github.com/s3ferry/s3ferry/ferrytypes"
	"github.com/s3ferry/s3ferry/internal/s3api"
	"github.com/s3ferry/s3ferry/internal/store"
)

// Client holds the AWS configuration an upload run is executed with.
// It is safe for concurrent use; every worker of a run opens its own
// session through it.
type Client struct {
	// config is the resolved AWS configuration
	config aws.Config

	// s3Opts are applied to every SDK client built from config
	s3Opts []func(*s3.Options)

	// api, when non-nil, is a fixed S3 API implementation shared by all
	// sessions. Used by NewWithClient for testing.
	api s3api.S3API

	// mu protects the filesystem swap
	mu sync.RWMutex

	// fs is the filesystem abstraction files are read through
	fs fs.Filesystem

	// log receives operational logging
	log *zap.Logger
}

// New creates a new client with the provided options.
// Credentials come from the default AWS credential chain unless
// WithStaticCredentials is given.
//
// Example:
//
//	client, err := s3ferry.New(
//	    s3ferry.WithRegion("us-west-2"),
//	    s3ferry.WithMaxRetries(3),
//	)
func New(opts ...ferrytypes.Option) (*Client, error) {
	clientCfg := &ferrytypes.ClientConfig{
		MaxRetries: 3, // Default retry count
	}

	for _, opt := range opts {
		opt(clientCfg)
	}

	// Start with default AWS configuration or use custom config
	var cfg aws.Config
	var err error

	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		var loadOpts []func(*config.LoadOptions) error
		if clientCfg.AccessKeyID != "" || clientCfg.SecretAccessKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(
					clientCfg.AccessKeyID, clientCfg.SecretAccessKey, ""),
			))
		}
		cfg, err = config.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return nil, errors.NewError("client initialization", errors.ErrInvalidCredentials).
				WithMessage(err.Error())
		}
	}

	// Apply region from options if specified, otherwise ensure a region is set
	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)

	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	// A custom HTTP client wins over the timeout shorthand
	switch {
	case clientCfg.CustomHTTPClient != nil:
		httpClient := clientCfg.CustomHTTPClient
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	case clientCfg.Timeout > 0:
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	// Initialize filesystem - use provided one or default to OS filesystem
	var filesystem fs.Filesystem
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		filesystem = billy.NewOSFS("/")
	}

	log := clientCfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		config: cfg,
		s3Opts: s3Opts,
		fs:     filesystem,
		log:    log,
	}, nil
}

// NewWithClient creates a client backed by a custom S3API implementation.
// Every session of every run shares that implementation. This is primarily
// used for testing with mocked clients.
func NewWithClient(api s3api.S3API) *Client {
	return &Client{
		api: api,
		fs:  billy.NewOSFS("/"),
		log: zap.NewNop(),
	}
}

// SetFilesystem sets the filesystem implementation for the client.
// This is useful for testing or when the filesystem needs to be changed
// after creation.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs = filesystem
}

// Close releases any resources held by the client.
// Currently a no-op but included for future extensibility.
func (c *Client) Close() error {
	return nil
}

// VerifyBucket checks that the bucket exists and is reachable with the
// client's credentials. It issues a single HeadBucket request.
func (c *Client) VerifyBucket(ctx context.Context, bucket string) error {
	b, err := c.openBucket(bucket)
	if err != nil {
		return err
	}
	return b.Verify(ctx)
}

// openBucket validates the bucket name and returns a fresh store session
// for it. Each call hands out an independent session unless the client was
// built with NewWithClient.
func (c *Client) openBucket(bucket string) (*store.Bucket, error) {
	if err := store.ValidateBucketName(bucket); err != nil {
		return nil, err
	}
	return store.New(c.newAPI(), bucket, c.filesystem()), nil
}

// newAPI returns the S3 API implementation for one session.
func (c *Client) newAPI() s3api.S3API {
	if c.api != nil {
		return c.api
	}
	return s3.NewFromConfig(c.config, c.s3Opts...)
}

func (c *Client) filesystem() fs.Filesystem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fs
}
