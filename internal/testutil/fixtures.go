package testutil

import (
	"context"
	"sync"

	"github.com/turtacn/fra-monitor/internal/intelligence/fraextract"
)

// MinimalPDF is the smallest byte string that passes the upload checks.
var MinimalPDF = []byte("%PDF-1.4\n%%EOF\n")

// Float returns a pointer to v, for building fraextract.StateRow values.
func Float(v float64) *float64 { return &v }

// StubExtractor is a fraextract.Extractor returning a canned Response.
type StubExtractor struct {
	mu       sync.Mutex
	Response *fraextract.Response
	Err      error
	Calls    []fraextract.Document
}

// NewStubExtractor returns a stub that reports one row per state with the
// given claims received.
func NewStubExtractor(claims float64, states ...string) *StubExtractor {
	resp := &fraextract.Response{}
	for _, s := range states {
		resp.StatesData = append(resp.StatesData, fraextract.StateRow{
			State:               s,
			TotalClaimsReceived: Float(claims),
		})
	}
	return &StubExtractor{Response: resp}
}

// Extract records doc and returns the canned result.
func (s *StubExtractor) Extract(_ context.Context, doc fraextract.Document) (*fraextract.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, doc)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Response, nil
}

// CallCount is the number of Extract calls so far.
func (s *StubExtractor) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

var _ fraextract.Extractor = (*StubExtractor)(nil)

//Personal.AI order the ending
