package handlers

import (
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/turtacn/fra-monitor/internal/application/extraction"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

const (
	uploadField = "file"

	// multipartOverhead is the allowance for boundaries and part headers on
	// top of the document limit.
	multipartOverhead = 1 << 20
)

// ExtractHandler accepts PDF uploads for extraction.
type ExtractHandler struct {
	svc        extraction.Service
	dispatcher *extraction.Dispatcher
	maxBytes   int64
	logger     logging.Logger
}

// NewExtractHandler creates a new ExtractHandler.  dispatcher may be nil, in
// which case async requests are processed inline.
func NewExtractHandler(svc extraction.Service, dispatcher *extraction.Dispatcher, maxBytes int64, log logging.Logger) *ExtractHandler {
	if maxBytes <= 0 {
		maxBytes = extraction.DefaultMaxUploadBytes
	}
	return &ExtractHandler{svc: svc, dispatcher: dispatcher, maxBytes: maxBytes, logger: orNop(log)}
}

// Extract handles POST /extract-pdf-data with the document in the "file"
// multipart field.  With async=true and a configured dispatcher the document
// is archived and queued, and the response is 202.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	upload, err := h.readUpload(w, r)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	if h.dispatcher != nil && strings.EqualFold(r.URL.Query().Get("async"), "true") {
		acc, err := h.dispatcher.Dispatch(r.Context(), upload)
		if err != nil {
			writeAppError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusAccepted, acc)
		return
	}

	res, err := h.svc.Ingest(r.Context(), upload)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ExtractHandler) readUpload(w http.ResponseWriter, r *http.Request) (*extraction.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxBytes + multipartOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if stderrors.As(err, &tooBig) {
			return nil, errors.New(errors.ErrCodeDocumentTooLarge, errors.DefaultMessageForCode(errors.ErrCodeDocumentTooLarge))
		}
		return nil, errors.New(errors.ErrCodeDocumentMissing, errors.DefaultMessageForCode(errors.ErrCodeDocumentMissing)).
			WithCause(err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, errors.New(errors.ErrCodeDocumentMissing, errors.DefaultMessageForCode(errors.ErrCodeDocumentMissing))
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		return nil, errors.New(errors.ErrCodeDocumentTooLarge, errors.DefaultMessageForCode(errors.ErrCodeDocumentTooLarge))
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "read upload")
	}

	h.logger.Debug("upload received",
		logging.String("file", header.Filename),
		logging.Int64("size", header.Size),
		logging.String("content_type", header.Header.Get("Content-Type")))

	return &extraction.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		Source:      extraction.SourceUpload,
	}, nil
}

//Personal.AI order the ending
