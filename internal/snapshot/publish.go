package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/koustreak/yobatis/internal/errs"
	"github.com/koustreak/yobatis/internal/filestore"
)

// DefaultKey is the object key used when none is configured:
// "schemas/<schema>.<ext>".
func DefaultKey(s *Snapshot, f Format) string {
	return fmt.Sprintf("schemas/%s.%s", s.Schema, f.Ext())
}

// Publish encodes s and uploads it to bucket/key, creating the bucket when
// it is missing.
func Publish(ctx context.Context, store filestore.Store, bucket, key string, s *Snapshot, f Format) (*filestore.ObjectInfo, error) {
	if bucket == "" {
		return nil, errs.New(errs.ErrKindInvalidConfiguration, "publish bucket must not be empty")
	}
	if key == "" {
		key = DefaultKey(s, f)
	}

	var buf bytes.Buffer
	if err := s.Encode(&buf, f); err != nil {
		return nil, err
	}

	if err := store.EnsureBucket(ctx, bucket); err != nil {
		return nil, err
	}
	return store.PutObject(ctx, bucket, key, &buf, int64(buf.Len()), f.ContentType())
}
