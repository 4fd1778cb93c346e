// Package store wraps the raw S3 API with the bucket-level operations the
// uploader needs: reachability verification, object puts with content-type
// detection, and access-policy assignment.
//
// A Bucket binds one S3 session to one bucket name. Sessions are not shared
// across workers; each worker opens its own Bucket.
package store
