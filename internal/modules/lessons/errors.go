package lessons

import (
	"errors"
	"net/http"

	"github.com/yungbote/udl-lesson-backend/internal/data/sessionstore"
	"github.com/yungbote/udl-lesson-backend/internal/domain/lesson"
	"github.com/yungbote/udl-lesson-backend/internal/platform/apierr"
	"github.com/yungbote/udl-lesson-backend/internal/platform/artifacts"
)

const (
	CodeSessionNotFound   = "session_not_found"
	CodeInvalidRequest    = "invalid_request"
	CodeInvalidSlideIndex = "invalid_slide_index"
	CodeInvalidPrinciple  = "invalid_principle"
	CodeOutOfOrder        = "out_of_order_principle"
	CodeInvalidSlideCount = "invalid_slide_count"
	CodeExportFailed      = "export_failed"
	CodeUploadFailed      = "upload_failed"
	CodeStoreFailed       = "store_failed"
)

// classify maps domain and storage errors to API errors. fallbackCode is
// used for anything unrecognised.
func classify(err error, fallbackCode string) error {
	if err == nil {
		return nil
	}
	if _, ok := apierr.From(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sessionstore.ErrNotFound):
		return apierr.New(http.StatusNotFound, CodeSessionNotFound, errors.New("session not found"))
	case errors.Is(err, lesson.ErrInvalidSlideIndex):
		return apierr.New(http.StatusBadRequest, CodeInvalidSlideIndex, errors.New("invalid slide index"))
	case errors.Is(err, lesson.ErrInvalidPrinciple):
		return apierr.New(http.StatusBadRequest, CodeInvalidPrinciple, err)
	case errors.Is(err, lesson.ErrOutOfOrder):
		return apierr.New(http.StatusBadRequest, CodeOutOfOrder, err)
	case errors.Is(err, lesson.ErrInvalidSlideCount):
		return apierr.New(http.StatusBadRequest, CodeInvalidSlideCount, err)
	case errors.Is(err, lesson.ErrInvalidRequest), errors.Is(err, artifacts.ErrInvalidName):
		return apierr.New(http.StatusBadRequest, CodeInvalidRequest, err)
	default:
		return apierr.Internal(fallbackCode, err)
	}
}
