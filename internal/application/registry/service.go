// Package registry provides the application service for the patta holder
// registry.
package registry

import (
	"context"

	"github.com/turtacn/fra-monitor/internal/domain/patta"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

// AddedMessage is returned to clients after a successful registration.
const AddedMessage = "Patta holder added successfully"

// Service defines the registry operations.
type Service interface {
	Add(ctx context.Context, h *patta.Holder) (*patta.Holder, error)
	List(ctx context.Context) ([]patta.Holder, error)
}

type serviceImpl struct {
	repo   patta.HolderRepository
	logger logging.Logger
}

// NewService creates a new registry Service.
func NewService(repo patta.HolderRepository, log logging.Logger) Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &serviceImpl{repo: repo, logger: log}
}

// Add validates and stores h.  Validation errors are returned unchanged so
// their message reaches the client; store failures become 503.
func (s *serviceImpl) Add(ctx context.Context, h *patta.Holder) (*patta.Holder, error) {
	if h == nil {
		return nil, errors.New(errors.ErrCodeHolderInvalid, "Missing required field: claimNumber")
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, h); err != nil {
		if errors.GetCode(err) == errors.ErrCodeConflict {
			return nil, err
		}
		s.logger.Error("store holder failed", logging.String("claim_number", h.ClaimNumber), logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "holder store unavailable")
	}
	s.logger.Info("patta holder registered",
		logging.String("id", h.ID),
		logging.String("state", h.State),
		logging.String("claim_type", string(h.ClaimType)))
	return h, nil
}

// List returns every holder, newest first.
func (s *serviceImpl) List(ctx context.Context) ([]patta.Holder, error) {
	hs, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "holder store unavailable")
	}
	return hs, nil
}

//Personal.AI order the ending
