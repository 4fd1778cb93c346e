// Package s3ferry provides tests for client initialization and configuration.
package s3ferry

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/s3ferry/s3ferry/errors"
	"github.com/s3ferry/s3ferry/ferrytypes"
	"github.com/s3ferry/s3ferry/internal/testutil"
)

// TestClient_New tests the New() constructor with default configuration.
func TestClient_New(t *testing.T) {
	tests := []struct {
		name string
		opts []ferrytypes.Option
	}{
		{
			name: "default configuration",
			opts: nil,
		},
		{
			name: "with region option",
			opts: []ferrytypes.Option{WithRegion("us-west-2")},
		},
		{
			name: "with multiple options",
			opts: []ferrytypes.Option{WithRegion("us-east-1"), WithMaxRetries(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.opts...)
			require.NoError(t, err)
			require.NotNil(t, client)
			assert.NotNil(t, client.fs)
			assert.NotNil(t, client.log)
		})
	}
}

// TestClient_New_AppliesRegionAndRetries verifies the options reach the
// resolved AWS configuration.
func TestClient_New_AppliesRegionAndRetries(t *testing.T) {
	client, err := New(
		WithAWSConfig(&aws.Config{}),
		WithRegion("eu-west-1"),
		WithMaxRetries(7),
	)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", client.config.Region)
	assert.Equal(t, 7, client.config.RetryMaxAttempts)
}

// TestClient_New_DefaultRegion verifies the fallback region when neither
// the options nor the configuration provide one.
func TestClient_New_DefaultRegion(t *testing.T) {
	client, err := New(WithAWSConfig(&aws.Config{}))
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", client.config.Region)
}

// TestClient_New_StaticCredentials verifies the fixed key pair is installed
// as the credential provider.
func TestClient_New_StaticCredentials(t *testing.T) {
	client, err := New(WithStaticCredentials("test-key", "test-secret"))
	require.NoError(t, err)

	creds, err := client.config.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-key", creds.AccessKeyID)
	assert.Equal(t, "test-secret", creds.SecretAccessKey)
}

// TestClient_New_EndpointOptions verifies endpoint and addressing options
// are applied to the SDK clients the sessions are built from.
func TestClient_New_EndpointOptions(t *testing.T) {
	client, err := New(
		WithAWSConfig(&aws.Config{}),
		WithEndpoint("http://localhost:9000"),
		WithForcePathStyle(true),
	)
	require.NoError(t, err)

	var sdkOpts s3.Options
	for _, fn := range client.s3Opts {
		fn(&sdkOpts)
	}
	assert.Equal(t, "http://localhost:9000", aws.ToString(sdkOpts.BaseEndpoint))
	assert.True(t, sdkOpts.UsePathStyle)
}

// TestClient_New_Timeout verifies the timeout shorthand builds an HTTP
// client and that a custom HTTP client takes precedence over it.
func TestClient_New_Timeout(t *testing.T) {
	t.Run("timeout builds http client", func(t *testing.T) {
		client, err := New(
			WithAWSConfig(&aws.Config{}),
			WithTimeout(5*time.Second),
		)
		require.NoError(t, err)

		var sdkOpts s3.Options
		for _, fn := range client.s3Opts {
			fn(&sdkOpts)
		}
		httpClient, ok := sdkOpts.HTTPClient.(*http.Client)
		require.True(t, ok)
		assert.Equal(t, 5*time.Second, httpClient.Timeout)
	})

	t.Run("custom http client wins", func(t *testing.T) {
		custom := &http.Client{Timeout: time.Minute}
		client, err := New(
			WithAWSConfig(&aws.Config{}),
			WithTimeout(5*time.Second),
			WithCustomHTTPClient(custom),
		)
		require.NoError(t, err)

		var sdkOpts s3.Options
		for _, fn := range client.s3Opts {
			fn(&sdkOpts)
		}
		assert.Same(t, custom, sdkOpts.HTTPClient)
	})
}

// TestClient_New_WithCustomConfig tests client creation with custom AWS
// configuration.
func TestClient_New_WithCustomConfig(t *testing.T) {
	client, err := New(WithAWSConfig(&aws.Config{Region: "ap-south-1"}))
	require.NoError(t, err)
	require.NotNil(t, client)

	assert.Equal(t, "ap-south-1", client.config.Region)
}

// TestClient_New_FilesystemAndLogger verifies the injected filesystem and
// logger are used instead of the defaults.
func TestClient_New_FilesystemAndLogger(t *testing.T) {
	memfs := billy.NewInMemoryFS()
	logger := zap.NewNop()

	client, err := New(
		WithAWSConfig(&aws.Config{}),
		WithFilesystem(memfs),
		WithLogger(logger),
	)
	require.NoError(t, err)

	assert.Same(t, memfs, client.filesystem())
	assert.Same(t, logger, client.log)
}

// TestClient_NewWithClient tests the mock-backed constructor.
func TestClient_NewWithClient(t *testing.T) {
	mock := &testutil.MockS3Client{}
	client := NewWithClient(mock)
	require.NotNil(t, client)

	b, err := client.openBucket("my-bucket")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", b.Name())
}

// TestClient_VerifyBucket exercises the reachability probe against mocks.
func TestClient_VerifyBucket(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		mock := &testutil.MockS3Client{}
		client := NewWithClient(mock)

		require.NoError(t, client.VerifyBucket(context.Background(), "my-bucket"))
		assert.Equal(t, 1, mock.HeadBucketCalls())
	})

	t.Run("unreachable", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			HeadBucketFunc: func(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
				return nil, assert.AnError
			},
		}
		client := NewWithClient(mock)

		err := client.VerifyBucket(context.Background(), "my-bucket")
		require.Error(t, err)
		assert.True(t, errors.IsBucketUnreachable(err))
	})

	t.Run("invalid bucket name never reaches the API", func(t *testing.T) {
		mock := &testutil.MockS3Client{}
		client := NewWithClient(mock)

		err := client.VerifyBucket(context.Background(), "xx")
		require.Error(t, err)
		assert.True(t, errors.IsInvalidBucketName(err))
		assert.Equal(t, 0, mock.HeadBucketCalls())
	})
}

// TestClient_SetFilesystem verifies the filesystem can be swapped after
// creation.
func TestClient_SetFilesystem(t *testing.T) {
	client := NewWithClient(&testutil.MockS3Client{})
	memfs := billy.NewInMemoryFS()

	client.SetFilesystem(memfs)
	assert.Same(t, memfs, client.filesystem())
}

// TestClient_Close tests resource cleanup.
func TestClient_Close(t *testing.T) {
	client := NewWithClient(&testutil.MockS3Client{})
	assert.NoError(t, client.Close())
}
