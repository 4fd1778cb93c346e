// Package testutil provides test utilities and mocks for upload operations.
// This package is internal and should only be used for testing within the
// s3ferry module.
package testutil

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/s3ferry/s3ferry/ferrytypes"
)

// MockS3Client is a mock implementation of the S3API interface for testing.
// It allows customization of each S3 operation through function fields and
// counts every call so tests can assert that an operation never ran.
type MockS3Client struct {
	HeadBucketFunc   func(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	PutObjectFunc    func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	PutObjectAclFunc func(context.Context, *s3.PutObjectAclInput, ...func(*s3.Options)) (*s3.PutObjectAclOutput, error)

	mu             sync.Mutex
	headBucketCall int
	putObjectCall  int
	putObjectAcls  int
}

// HeadBucket mocks the S3 HeadBucket operation.
func (m *MockS3Client) HeadBucket(
	ctx context.Context,
	params *s3.HeadBucketInput,
	optFns ...func(*s3.Options),
) (*s3.HeadBucketOutput, error) {
	m.count(&m.headBucketCall)
	if m.HeadBucketFunc != nil {
		return m.HeadBucketFunc(ctx, params, optFns...)
	}
	return &s3.HeadBucketOutput{}, nil
}

// PutObject mocks the S3 PutObject operation.
func (m *MockS3Client) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	m.count(&m.putObjectCall)
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

// PutObjectAcl mocks the S3 PutObjectAcl operation.
func (m *MockS3Client) PutObjectAcl(
	ctx context.Context,
	params *s3.PutObjectAclInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectAclOutput, error) {
	m.count(&m.putObjectAcls)
	if m.PutObjectAclFunc != nil {
		return m.PutObjectAclFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectAclOutput{}, nil
}

// HeadBucketCalls returns how many times HeadBucket was invoked.
func (m *MockS3Client) HeadBucketCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.headBucketCall
}

// PutObjectCalls returns how many times PutObject was invoked.
func (m *MockS3Client) PutObjectCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putObjectCall
}

// PutObjectAclCalls returns how many times PutObjectAcl was invoked.
func (m *MockS3Client) PutObjectAclCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putObjectAcls
}

func (m *MockS3Client) count(n *int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*n++
}

// RecordingSink is a CompletionSink that records every outcome it receives.
// It is safe for concurrent use.
type RecordingSink struct {
	mu       sync.Mutex
	outcomes []ferrytypes.Outcome
}

// TaskDone implements ferrytypes.CompletionSink.
func (s *RecordingSink) TaskDone(outcome ferrytypes.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, outcome)
}

// Outcomes returns a copy of every recorded outcome.
func (s *RecordingSink) Outcomes() []ferrytypes.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ferrytypes.Outcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

// FailedPaths returns the paths of the recorded failures.
func (s *RecordingSink) FailedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var failed []string
	for _, o := range s.outcomes {
		if o.Failed() {
			failed = append(failed, o.Path)
		}
	}
	return failed
}

// Len returns the number of recorded outcomes.
func (s *RecordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outcomes)
}
