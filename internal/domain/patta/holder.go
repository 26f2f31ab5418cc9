// Package patta models the registry of individual land-title ("patta")
// holders recorded under the Forest Rights Act.
package patta

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/fra-monitor/pkg/errors"
)

// ClaimType distinguishes individual from community rights.
type ClaimType string

const (
	ClaimIndividual ClaimType = "Individual"
	ClaimCommunity  ClaimType = "Community"
)

// IsValid reports whether c is one of the recognised claim types.
func (c ClaimType) IsValid() bool {
	return c == ClaimIndividual || c == ClaimCommunity
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the position is within latitude and longitude range.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Holder is one registered title holder.
type Holder struct {
	ID               string       `json:"id,omitempty"`
	ClaimNumber      string       `json:"claimNumber"`
	ApplicantName    string       `json:"applicantName"`
	ApplicantAddress string       `json:"applicantAddress"`
	Village          string       `json:"village"`
	District         string       `json:"district"`
	State            string       `json:"state"`
	ClaimType        ClaimType    `json:"claimType"`
	LandArea         float64      `json:"landArea"`
	LandDescription  string       `json:"landDescription"`
	Coordinates      *Coordinates `json:"coordinates"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// UnmarshalJSON accepts landArea as a JSON number or as a numeric string, the
// way the registration form submits it.  An empty string counts as missing
// and a non-numeric one fails validation.
func (h *Holder) UnmarshalJSON(b []byte) error {
	type plain Holder
	aux := struct {
		*plain
		LandArea json.RawMessage `json:"landArea"`
	}{plain: (*plain)(h)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	area, err := parseLandArea(aux.LandArea)
	if err != nil {
		return err
	}
	h.LandArea = area
	return nil
}

func parseLandArea(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] != '"' {
		var n float64
		err := json.Unmarshal(raw, &n)
		return n, err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), nil
	}
	return n, nil
}

// Validate checks required fields in registry order and returns the first
// problem found.  Messages are shown to API clients as-is.
func (h *Holder) Validate() error {
	required := []struct {
		name    string
		missing bool
	}{
		{"claimNumber", blank(h.ClaimNumber)},
		{"applicantName", blank(h.ApplicantName)},
		{"applicantAddress", blank(h.ApplicantAddress)},
		{"village", blank(h.Village)},
		{"district", blank(h.District)},
		{"state", blank(h.State)},
		{"claimType", blank(string(h.ClaimType))},
		{"landArea", h.LandArea == 0},
		{"landDescription", blank(h.LandDescription)},
		{"coordinates", h.Coordinates == nil},
	}
	for _, f := range required {
		if f.missing {
			return errors.New(errors.ErrCodeHolderInvalid, "Missing required field: "+f.name)
		}
	}

	if !h.Coordinates.Valid() {
		return errors.New(errors.ErrCodeHolderCoordinates, "Invalid coordinates provided")
	}
	if !h.ClaimType.IsValid() {
		return errors.Newf(errors.ErrCodeHolderClaimType,
			"claimType must be %q or %q", ClaimIndividual, ClaimCommunity).WithDetail(string(h.ClaimType))
	}
	if h.LandArea < 0 || math.IsNaN(h.LandArea) || math.IsInf(h.LandArea, 0) {
		return errors.New(errors.ErrCodeHolderLandArea, "landArea must be greater than 0")
	}
	return nil
}

// PrepareForCreate assigns the ID and timestamps a backend stores.
func PrepareForCreate(h *Holder, now time.Time) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	now = now.UTC()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	h.UpdatedAt = now
}

// HolderRepository persists patta holders.
type HolderRepository interface {
	// Create stores h, assigning ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, h *Holder) error

	// List returns every holder, newest CreatedAt first.
	List(ctx context.Context) ([]Holder, error)

	// Count returns the number of stored holders.
	Count(ctx context.Context) (int64, error)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

//Personal.AI order the ending
