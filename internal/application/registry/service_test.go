package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fra-monitor/internal/domain/patta"
	"github.com/turtacn/fra-monitor/internal/infrastructure/database/memory"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

type mockHolderRepo struct {
	mock.Mock
}

func (m *mockHolderRepo) Create(ctx context.Context, h *patta.Holder) error {
	return m.Called(ctx, h).Error(0)
}

func (m *mockHolderRepo) List(ctx context.Context) ([]patta.Holder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]patta.Holder), args.Error(1)
}

func (m *mockHolderRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func holder() *patta.Holder {
	return &patta.Holder{
		ClaimNumber: "FRA/CG/2025/001", ApplicantName: "Ramesh Kumar", ApplicantAddress: "Village Road",
		Village: "Bastar", District: "Bastar", State: "Chhattisgarh", ClaimType: patta.ClaimCommunity,
		LandArea: 12.5, LandDescription: "Community forest block", Coordinates: &patta.Coordinates{Lat: 19.1, Lng: 81.9},
	}
}

func TestAdd_RoundTrip(t *testing.T) {
	svc := NewService(memory.NewHolderStore(), nil)
	ctx := context.Background()

	h, err := svc.Add(ctx, holder())
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)
	assert.False(t, h.CreatedAt.IsZero())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, h.ID, list[0].ID)
}

func TestAdd_Validation(t *testing.T) {
	repo := &mockHolderRepo{}
	svc := NewService(repo, nil)

	h := holder()
	h.Coordinates = &patta.Coordinates{Lat: 91, Lng: 0}
	_, err := svc.Add(context.Background(), h)
	require.Error(t, err)
	var ae *errors.AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "Invalid coordinates provided", ae.Message)

	h = holder()
	h.ApplicantName = ""
	_, err = svc.Add(context.Background(), h)
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "Missing required field: applicantName", ae.Message)

	_, err = svc.Add(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeHolderInvalid))

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdd_StoreFailure(t *testing.T) {
	repo := &mockHolderRepo{}
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New(errors.ErrCodeDatabaseError, "down"))
	svc := NewService(repo, nil)

	_, err := svc.Add(context.Background(), holder())
	assert.Equal(t, errors.ErrCodeServiceUnavailable, errors.GetCode(err))
}

func TestAdd_DuplicateClaimNumber(t *testing.T) {
	repo := &mockHolderRepo{}
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New(errors.ErrCodeConflict, "claim number exists"))
	svc := NewService(repo, nil)

	_, err := svc.Add(context.Background(), holder())
	assert.Equal(t, errors.ErrCodeConflict, errors.GetCode(err))
}

func TestList_StoreFailure(t *testing.T) {
	repo := &mockHolderRepo{}
	repo.On("List", mock.Anything).Return(nil, errors.New(errors.ErrCodeDatabaseError, "down"))

	_, err := NewService(repo, nil).List(context.Background())
	assert.Equal(t, errors.ErrCodeServiceUnavailable, errors.GetCode(err))
	repo.AssertExpectations(t)
}

//Personal.AI order the ending
