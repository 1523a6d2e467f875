package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kamilaalv/movie465/internal/projects/domain"
	"github.com/kamilaalv/movie465/internal/projects/repository"
	apperrors "github.com/kamilaalv/movie465/pkg/errors"
	"github.com/kamilaalv/movie465/pkg/pagination"
)

type mockWorkRepo struct {
	mock.Mock
}

func (m *mockWorkRepo) Create(ctx context.Context, work *domain.Work) error {
	args := m.Called(ctx, work)
	if args.Error(0) == nil {
		work.ID = 5
	}
	return args.Error(0)
}

func (m *mockWorkRepo) GetByID(ctx context.Context, id int64) (*domain.Work, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Work), args.Error(1)
}

func (m *mockWorkRepo) List(ctx context.Context, filter repository.WorkFilter, params pagination.Params) ([]domain.Work, int, error) {
	args := m.Called(ctx, filter, params)
	var works []domain.Work
	if args.Get(0) != nil {
		works = args.Get(0).([]domain.Work)
	}
	return works, args.Int(1), args.Error(2)
}

func (m *mockWorkRepo) Update(ctx context.Context, work *domain.Work) error {
	return m.Called(ctx, work).Error(0)
}

func (m *mockWorkRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newWorkFixture() (*WorkService, *mockWorkRepo) {
	works := &mockWorkRepo{}
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewWorkService(works, log), works
}

func TestWorkCreate_Success(t *testing.T) {
	svc, works := newWorkFixture()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 1, 0)

	works.On("Create", mock.Anything, mock.Anything).Return(nil)
	works.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Work{ID: 5, Name: "write docs", StartDate: start, DueDate: due}, nil)

	work, err := svc.Create(context.Background(), WorkInput{
		Name:      "write docs",
		StartDate: start,
		DueDate:   due,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), work.ID)

	works.AssertExpectations(t)
}

func TestWorkCreate_DueBeforeStartRejected(t *testing.T) {
	svc, works := newWorkFixture()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), WorkInput{
		Name:      "time travel",
		StartDate: start,
		DueDate:   start.AddDate(0, 0, -1),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	works.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWorkCreate_EqualDatesAllowed(t *testing.T) {
	svc, works := newWorkFixture()

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	works.On("Create", mock.Anything, mock.Anything).Return(nil)
	works.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Work{ID: 5, StartDate: day, DueDate: day}, nil)

	_, err := svc.Create(context.Background(), WorkInput{
		Name:      "one-day task",
		StartDate: day,
		DueDate:   day,
	})
	assert.NoError(t, err)
}

func TestWorkUpdate_ValidatesDates(t *testing.T) {
	svc, works := newWorkFixture()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Update(context.Background(), 5, WorkInput{
		Name:      "task",
		StartDate: start,
		DueDate:   start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	works.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
