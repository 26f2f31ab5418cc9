package fraextract

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fra-monitor/pkg/errors"
)

func geminiBody(t *testing.T, text string) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	require.NoError(t, err)
	return string(b)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL, Model: "gemini-test", APIKey: "k-123", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestClient_Extract_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotReq gmReq
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, geminiBody(t, sixRowResponse))
	})

	resp, err := c.Extract(context.Background(), Document{Name: "r.pdf", Data: []byte("%PDF-1.4 test")})
	require.NoError(t, err)
	require.Len(t, resp.StatesData, 6)

	assert.Equal(t, "/v1beta/models/gemini-test:generateContent", gotPath)
	assert.Equal(t, "k-123", gotKey)
	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 2)
	assert.Equal(t, ExtractionPrompt, gotReq.Contents[0].Parts[0].Text)
	require.NotNil(t, gotReq.Contents[0].Parts[1].InlineData)
	assert.Equal(t, pdfMIMEType, gotReq.Contents[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, "application/json", gotReq.GenerationConfig.ResponseMIMEType)

	recs := Normalize(resp, Source{FileName: "r.pdf", Now: time.Now()})
	assert.Len(t, recs, 5)
}

func TestClient_Extract_CodeFence(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, geminiBody(t, "```json\n"+sixRowResponse+"\n```"))
	})
	resp, err := c.Extract(context.Background(), Document{Data: []byte("x")})
	require.NoError(t, err)
	assert.Len(t, resp.StatesData, 6)
}

func TestClient_Extract_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.ErrorCode
		wantHTTP int
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"Resource has been exhausted"}}`, errors.ErrCodeModelRateLimited, http.StatusTooManyRequests},
		{"upstream 500", http.StatusInternalServerError, `{"error":{}}`, errors.ErrCodeModelError, http.StatusInternalServerError},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"invalid argument"}}`, errors.ErrCodeExtractionFailed, http.StatusInternalServerError},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, errors.ErrCodeModelError, http.StatusInternalServerError},
		{"blocked", http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`, errors.ErrCodeModelError, http.StatusInternalServerError},
		{"schema violation", http.StatusOK, "", errors.ErrCodeModelError, http.StatusInternalServerError},
		{"garbage body", http.StatusOK, `<html>`, errors.ErrCodeModelError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.body
			if tt.name == "schema violation" {
				body = geminiBody(t, `{"statesData":[{"state":"Goa","totalClaimsReceived":"many"}]}`)
			}
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, body)
			})
			_, err := c.Extract(context.Background(), Document{Data: []byte("x")})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))

			classified := Classify(err)
			assert.Equal(t, tt.wantHTTP, classified.HTTPStatus())
		})
	}
}

func TestClient_Extract_ErrorHidesURL(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1", APIKey: "secret-key", Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.Extract(context.Background(), Document{Data: []byte("x")})
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "generateContent"))
	assert.False(t, strings.Contains(err.Error(), "secret-key"))
}

func TestClient_Extract_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Extract(ctx, Document{Data: []byte("x")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}

//Personal.AI order the ending
