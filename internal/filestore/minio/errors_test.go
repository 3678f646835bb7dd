package minio

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/koustreak/yobatis/internal/errs"
	"github.com/koustreak/yobatis/internal/filestore"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"no such bucket", miniogo.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}, errs.ErrKindNotFound},
		{"no such key", miniogo.ErrorResponse{Code: "NoSuchKey"}, errs.ErrKindNotFound},
		{"bare 404", miniogo.ErrorResponse{StatusCode: http.StatusNotFound}, errs.ErrKindNotFound},
		{"bad bucket name", miniogo.ErrorResponse{Code: "InvalidBucketName", StatusCode: http.StatusBadRequest}, errs.ErrKindInvalidConfiguration},
		{"bare 400", miniogo.ErrorResponse{StatusCode: http.StatusBadRequest}, errs.ErrKindInvalidConfiguration},
		{"access denied", miniogo.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, errs.ErrKindResourceNotAvailable},
		{"timeout", context.DeadlineExceeded, errs.ErrKindResourceNotAvailable},
		{"network", errors.New("dial tcp: connection refused"), errs.ErrKindResourceNotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "op")
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, tt.err, got.Cause)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, mapError(nil, "op"))
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.True(t, errs.IsInvalidArgument(err))

	_, err = New(context.Background(), filestore.DefaultConfig("", "a", "b"))
	assert.True(t, errs.IsInvalidConfiguration(err))
}
