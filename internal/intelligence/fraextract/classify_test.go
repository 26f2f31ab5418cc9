package fraextract

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fra-monitor/pkg/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    errors.ErrorCode
		wantStatus  int
		wantMessage string
	}{
		{"model text", stderrors.New("model overloaded"), errors.ErrCodeModelError, http.StatusInternalServerError, "AI model error. Please try again."},
		{"quota text", stderrors.New("Quota exceeded for project"), errors.ErrCodeModelRateLimited, http.StatusTooManyRequests, "Service temporarily unavailable. Please try again later."},
		{"rate text", stderrors.New("rate limit hit"), errors.ErrCodeModelRateLimited, http.StatusTooManyRequests, "Service temporarily unavailable. Please try again later."},
		{"model wins over quota", stderrors.New("model quota exceeded"), errors.ErrCodeModelError, http.StatusInternalServerError, "AI model error. Please try again."},
		{"other", stderrors.New("connection reset by peer"), errors.ErrCodeExtractionFailed, http.StatusInternalServerError, "Failed to process PDF. Please ensure the file contains FRA data tables."},
		{"typed rate limit", errors.New(errors.ErrCodeModelRateLimited, "upstream said no"), errors.ErrCodeModelRateLimited, http.StatusTooManyRequests, "Service temporarily unavailable. Please try again later."},
		{"typed model", errors.New(errors.ErrCodeModelError, "empty content"), errors.ErrCodeModelError, http.StatusInternalServerError, "AI model error. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus())
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_DocumentErrorsPassThrough(t *testing.T) {
	orig := errors.New(errors.ErrCodeDocumentUnsupported, "Only PDF files are supported")
	got := Classify(orig)
	assert.Same(t, orig, got)
	assert.Equal(t, http.StatusBadRequest, got.HTTPStatus())
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

//Personal.AI order the ending
