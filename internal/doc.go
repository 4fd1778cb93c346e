// Package internal contains private implementation details for the s3ferry
// module. These packages are not intended for external use and may change
// without notice.
//
// The internal packages are organized as follows:
//   - s3api: The raw S3 API surface workers talk to
//   - scanner: Directory enumeration and regex filtering
//   - partition: Round-robin work distribution
//   - store: Bucket sessions, puts and access policies
//   - worker: The per-partition upload loop
//   - config: CLI configuration resolution
//   - logging: CLI logger construction
//   - metrics: Optional Prometheus collector and endpoint
//   - testutil: Mocks and fixtures shared by the test suites
package internal
