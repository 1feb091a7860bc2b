package application

import (
	"context"
	"testing"

	"github.com/manorfm/coffee-shop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockDrinkRepository struct {
	mock.Mock
}

func (m *MockDrinkRepository) List(ctx context.Context) ([]*domain.Drink, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Drink), args.Error(1)
}

func (m *MockDrinkRepository) FindByID(ctx context.Context, id int64) (*domain.Drink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Drink), args.Error(1)
}

func (m *MockDrinkRepository) Insert(ctx context.Context, drink *domain.Drink) error {
	args := m.Called(ctx, drink)
	return args.Error(0)
}

func (m *MockDrinkRepository) Update(ctx context.Context, drink *domain.Drink) error {
	args := m.Called(ctx, drink)
	return args.Error(0)
}

func (m *MockDrinkRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ domain.DrinkService = (*DrinkService)(nil)

func water() domain.Recipe {
	return domain.Recipe{{Name: "water", Color: "blue", Parts: 1}}
}

func strPtr(s string) *string {
	return &s
}

func TestDrinkService_ListDrinks(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	tests := []struct {
		name        string
		setup       func(*MockDrinkRepository)
		expectedLen int
		expectedErr error
	}{
		{
			name: "menu with drinks",
			setup: func(m *MockDrinkRepository) {
				m.On("List", ctx).Return([]*domain.Drink{
					{ID: 1, Title: "water", Recipe: water()},
					{ID: 2, Title: "espresso", Recipe: water()},
				}, nil)
			},
			expectedLen: 2,
		},
		{
			name: "empty menu",
			setup: func(m *MockDrinkRepository) {
				m.On("List", ctx).Return([]*domain.Drink{}, nil)
			},
			expectedErr: domain.ErrNoDrinks,
		},
		{
			name: "repository error",
			setup: func(m *MockDrinkRepository) {
				m.On("List", ctx).Return(nil, assert.AnError)
			},
			expectedErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDrinkRepository)
			tt.setup(repo)
			service := NewDrinkService(repo, logger)

			drinks, err := service.ListDrinks(ctx)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, drinks)
			} else {
				require.NoError(t, err)
				assert.Len(t, drinks, tt.expectedLen)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestDrinkService_CreateDrink(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("successful create", func(t *testing.T) {
		repo := new(MockDrinkRepository)
		service := NewDrinkService(repo, logger)

		repo.On("Insert", ctx, mock.MatchedBy(func(d *domain.Drink) bool {
			return d.Title == "water" && len(d.Recipe) == 1
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Drink).ID = 42
		}).Return(nil)

		drink, err := service.CreateDrink(ctx, "  water ", water())
		require.NoError(t, err)
		assert.Equal(t, int64(42), drink.ID)
		assert.Equal(t, "water", drink.Title)
		repo.AssertExpectations(t)
	})

	t.Run("missing title or recipe", func(t *testing.T) {
		repo := new(MockDrinkRepository)
		service := NewDrinkService(repo, logger)

		_, err := service.CreateDrink(ctx, "", water())
		assert.ErrorIs(t, err, domain.ErrInvalidDrink)

		_, err = service.CreateDrink(ctx, "water", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidDrink)

		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("duplicate title", func(t *testing.T) {
		repo := new(MockDrinkRepository)
		service := NewDrinkService(repo, logger)

		repo.On("Insert", ctx, mock.Anything).Return(domain.ErrDrinkAlreadyExists)

		drink, err := service.CreateDrink(ctx, "water", water())
		assert.ErrorIs(t, err, domain.ErrDrinkAlreadyExists)
		assert.Nil(t, drink)
	})
}

func TestDrinkService_UpdateDrink(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("update title only", func(t *testing.T) {
		repo := new(MockDrinkRepository)
		service := NewDrinkService(repo, logger)

		existing := &domain.Drink{ID: 1, Title: "water", Recipe: water()}
		repo.On("FindByID", ctx, int64(1)).Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)

		drink, err := service.UpdateDrink(ctx, 1, strPtr("sparkling water"), nil)
		require.NoError(t, err)
		assert.Equal(t, "sparkling water", drink.Title)
		assert.Equal(t, water(), drink.Recipe)
		repo.AssertExpectations(t)
	})

	t.Run("update recipe only", func(t *testing.T) {
		repo := new(MockDrinkRepository)
		service := NewDrinkService(repo, logger)

		existing := &domain.Drink{ID: 1, Title: "water", Recipe: water()}
		recipe := domain.Recipe{{Name: "milk", Color: "white", Parts: 2}}
		repo.On("FindByID", ctx, int64(1)).Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)

		drink, err := service.UpdateDrink(ctx, 1, nil, recipe)
		require.NoError(t, err)
		assert.Equal(t, "water", drink.Title)
		assert.Equal(t, recipe, drink.Recipe)
	})

	t.Run("nothing to update", func(t *testing.T) {
		repo := new(MockDrinkRepository)
		service := NewDrinkService(repo, logger)

		existing := &domain.Drink{ID: 1, Title: "water", Recipe: water()}
		repo.On("FindByID", ctx, int64(1)).Return(existing, nil)

		_, err := service.UpdateDrink(ctx, 1, nil, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidDrink)

		_, err = service.UpdateDrink(ctx, 1, strPtr(" "), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidDrink)

		_, err = service.UpdateDrink(ctx, 1, nil, domain.Recipe{})
		assert.ErrorIs(t, err, domain.ErrInvalidDrink)

		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown drink wins over empty changes", func(t *testing.T) {
		repo := new(MockDrinkRepository)
		service := NewDrinkService(repo, logger)

		repo.On("FindByID", ctx, int64(999)).Return(nil, domain.ErrDrinkNotFound)

		_, err := service.UpdateDrink(ctx, 999, nil, nil)
		assert.ErrorIs(t, err, domain.ErrDrinkNotFound)
		assert.NotErrorIs(t, err, domain.ErrInvalidDrink)
		repo.AssertCalled(t, "FindByID", ctx, int64(999))
	})

	t.Run("unknown drink", func(t *testing.T) {
		repo := new(MockDrinkRepository)
		service := NewDrinkService(repo, logger)

		repo.On("FindByID", ctx, int64(99)).Return(nil, domain.ErrDrinkNotFound)

		drink, err := service.UpdateDrink(ctx, 99, strPtr("water"), nil)
		assert.ErrorIs(t, err, domain.ErrDrinkNotFound)
		assert.Nil(t, drink)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("title taken by another drink", func(t *testing.T) {
		repo := new(MockDrinkRepository)
		service := NewDrinkService(repo, logger)

		existing := &domain.Drink{ID: 1, Title: "water", Recipe: water()}
		repo.On("FindByID", ctx, int64(1)).Return(existing, nil)
		repo.On("Update", ctx, existing).Return(domain.ErrDrinkAlreadyExists)

		_, err := service.UpdateDrink(ctx, 1, strPtr("espresso"), nil)
		assert.ErrorIs(t, err, domain.ErrDrinkAlreadyExists)
	})
}

func TestDrinkService_DeleteDrink(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	tests := []struct {
		name        string
		repoErr     error
		expectedErr error
	}{
		{name: "successful delete"},
		{name: "unknown drink", repoErr: domain.ErrDrinkNotFound, expectedErr: domain.ErrDrinkNotFound},
		{name: "repository error", repoErr: assert.AnError, expectedErr: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDrinkRepository)
			service := NewDrinkService(repo, logger)
			repo.On("Delete", ctx, int64(3)).Return(tt.repoErr)

			err := service.DeleteDrink(ctx, 3)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
