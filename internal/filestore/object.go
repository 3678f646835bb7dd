package filestore

import "time"

// ObjectInfo describes a single object stored in a bucket.
type ObjectInfo struct {
	// Bucket holds the object.
	Bucket string

	// Key is the full object path within the bucket (e.g. "schemas/yobatis.json").
	Key string

	// Size is the byte size of the object. -1 if unknown.
	Size int64

	// ContentType is the MIME type (e.g. "application/json").
	ContentType string

	// ETag is the object's entity tag as returned by the backend.
	ETag string

	// LastModified is when the object was last written.
	// May be zero right after an upload.
	LastModified time.Time
}
