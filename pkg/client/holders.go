package client

import (
	"context"
	"time"
)

// Coordinates locate a claimed plot.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Holder is a registered patta holder.
type Holder struct {
	ID               string       `json:"id,omitempty"`
	ClaimNumber      string       `json:"claimNumber"`
	ApplicantName    string       `json:"applicantName"`
	ApplicantAddress string       `json:"applicantAddress"`
	Village          string       `json:"village"`
	District         string       `json:"district"`
	State            string       `json:"state"`
	ClaimType        string       `json:"claimType"`
	LandArea         float64      `json:"landArea"`
	LandDescription  string       `json:"landDescription"`
	Coordinates      *Coordinates `json:"coordinates"`
	CreatedAt        time.Time    `json:"createdAt,omitempty"`
}

// HoldersClient manages the patta holder registry.
type HoldersClient struct {
	client *Client
}

// List returns every registered holder.
func (hc *HoldersClient) List(ctx context.Context) ([]Holder, error) {
	var out []Holder
	if err := hc.client.getData(ctx, "/patta-holders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Add registers h and returns the stored holder with its ID.
func (hc *HoldersClient) Add(ctx context.Context, h *Holder) (*Holder, error) {
	resp, err := hc.client.postJSON(ctx, "/patta-holders", h)
	if err != nil {
		return nil, err
	}
	var out Holder
	if err := decodeData(resp.body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
