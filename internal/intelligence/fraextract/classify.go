package fraextract

import (
	"strings"

	"github.com/turtacn/fra-monitor/pkg/errors"
)

// Classify maps an extraction failure onto the error a client sees.  Document
// validation errors pass through unchanged.  Everything else becomes one of
// three retryable outcomes: rate limited (429), model error (500) or a
// generic extraction failure (500), each with its fixed user-facing message.
//
// Typed codes win.  Untyped failures are matched on their text the way the
// upstream SDK reports them: "model" first, then "quota" or "rate".
func Classify(err error) *errors.AppError {
	if err == nil {
		return nil
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeDocumentMissing, errors.ErrCodeDocumentUnsupported, errors.ErrCodeDocumentTooLarge:
		var ae *errors.AppError
		errors.As(err, &ae)
		return ae
	case errors.ErrCodeModelRateLimited:
		return classified(errors.ErrCodeModelRateLimited, err)
	case errors.ErrCodeModelError:
		return classified(errors.ErrCodeModelError, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "model"):
		return classified(errors.ErrCodeModelError, err)
	case strings.Contains(msg, "quota"), strings.Contains(msg, "rate"):
		return classified(errors.ErrCodeModelRateLimited, err)
	default:
		return classified(errors.ErrCodeExtractionFailed, err)
	}
}

func classified(code errors.ErrorCode, cause error) *errors.AppError {
	return errors.New(code, errors.DefaultMessageForCode(code)).WithCause(cause)
}

//Personal.AI order the ending
