package fraextract

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/turtacn/fra-monitor/pkg/errors"
)

var pdfMagic = []byte("%PDF-")

// DocumentInfo summarises an uploaded PDF.
type DocumentInfo struct {
	Size      int64 `json:"size"`
	PageCount int   `json:"pageCount"`
}

// IsPDF reports whether the declared content type or the data itself
// identifies a PDF.  A declared type other than PDF is rejected even when
// the bytes look like one, matching the upload form's contract.
func IsPDF(contentType string, data []byte) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case pdfMIMEType:
		return true
	case "", "application/octet-stream":
		return bytes.HasPrefix(data, pdfMagic) || http.DetectContentType(data) == pdfMIMEType
	default:
		return false
	}
}

// CheckUpload applies the upload rules: a document must be present, be a PDF
// and not exceed maxBytes.
func CheckUpload(contentType string, data []byte, maxBytes int64) error {
	if len(data) == 0 {
		return errors.New(errors.ErrCodeDocumentMissing, errors.DefaultMessageForCode(errors.ErrCodeDocumentMissing))
	}
	if !IsPDF(contentType, data) {
		return errors.New(errors.ErrCodeDocumentUnsupported, errors.DefaultMessageForCode(errors.ErrCodeDocumentUnsupported)).
			WithDetail(contentType)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return errors.New(errors.ErrCodeDocumentTooLarge, errors.DefaultMessageForCode(errors.ErrCodeDocumentTooLarge))
	}
	return nil
}

// InspectPDF parses data with pdfcpu and reports its page count.  A document
// pdfcpu cannot read is still handed to the model, so callers treat an error
// here as a warning.
func InspectPDF(data []byte) (DocumentInfo, error) {
	info := DocumentInfo{Size: int64(len(data))}

	ctx, err := pdfcpu.Read(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return info, errors.Wrap(err, errors.ErrCodeDocumentUnsupported, "read pdf")
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return info, errors.Wrap(err, errors.ErrCodeDocumentUnsupported, "pdf page count")
	}
	info.PageCount = ctx.PageCount
	return info, nil
}

//Personal.AI order the ending
