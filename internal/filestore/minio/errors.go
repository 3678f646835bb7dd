package minio

import (
	"errors"
	"net/http"

	"github.com/koustreak/yobatis/internal/errs"
	minioErr "github.com/minio/minio-go/v7"
)

// mapError translates a MinIO SDK error into a *errs.Error.
// Missing buckets and keys are NotFound, malformed names and requests are
// InvalidConfiguration, everything else (auth, network, timeouts) is
// ResourceNotAvailable.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	var resp minioErr.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.Code {
		case "NoSuchBucket", "NoSuchKey", "NoSuchUpload":
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case "InvalidBucketName", "InvalidObjectName", "KeyTooLongError":
			return errs.Wrap(errs.ErrKindInvalidConfiguration, msg, err)
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case http.StatusBadRequest:
			return errs.Wrap(errs.ErrKindInvalidConfiguration, msg, err)
		}
	}

	return errs.Wrap(errs.ErrKindResourceNotAvailable, msg, err)
}
