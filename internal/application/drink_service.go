package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manorfm/coffee-shop/internal/domain"
	"go.uber.org/zap"
)

type DrinkService struct {
	repo   domain.DrinkRepository
	logger *zap.Logger
}

func NewDrinkService(repo domain.DrinkRepository, logger *zap.Logger) *DrinkService {
	return &DrinkService{
		repo:   repo,
		logger: logger,
	}
}

// ListDrinks returns the whole menu. An empty menu is reported as ErrNoDrinks.
func (s *DrinkService) ListDrinks(ctx context.Context) ([]*domain.Drink, error) {
	drinks, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list drinks", zap.Error(err))
		return nil, err
	}
	if len(drinks) == 0 {
		return nil, domain.ErrNoDrinks
	}
	return drinks, nil
}

// CreateDrink adds a drink to the menu
func (s *DrinkService) CreateDrink(ctx context.Context, title string, recipe domain.Recipe) (*domain.Drink, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(recipe) == 0 {
		return nil, fmt.Errorf("%w: title and recipe are required", domain.ErrInvalidDrink)
	}

	drink := domain.NewDrink(title, recipe)
	if err := s.repo.Insert(ctx, drink); err != nil {
		if errors.Is(err, domain.ErrDrinkAlreadyExists) {
			s.logger.Info("Drink title already taken", zap.String("title", title))
			return nil, err
		}
		s.logger.Error("Failed to create drink", zap.String("title", title), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Drink created",
		zap.Int64("drink_id", drink.ID),
		zap.String("title", drink.Title))
	return drink, nil
}

// UpdateDrink changes the title, the recipe or both. A nil title or recipe
// leaves the stored value untouched; at least one must be given. An unknown
// id is reported before the changes are checked.
func (s *DrinkService) UpdateDrink(ctx context.Context, id int64, title *string, recipe domain.Recipe) (*domain.Drink, error) {
	drink, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title == nil && recipe == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidDrink)
	}
	if title != nil && strings.TrimSpace(*title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidDrink)
	}
	if recipe != nil && len(recipe) == 0 {
		return nil, fmt.Errorf("%w: recipe must not be empty", domain.ErrInvalidDrink)
	}

	if title != nil {
		drink.Title = strings.TrimSpace(*title)
	}
	if recipe != nil {
		drink.Recipe = recipe
	}
	drink.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, drink); err != nil {
		s.logger.Error("Failed to update drink", zap.Int64("drink_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Drink updated", zap.Int64("drink_id", id))
	return drink, nil
}

// DeleteDrink removes a drink from the menu
func (s *DrinkService) DeleteDrink(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrDrinkNotFound) {
			s.logger.Error("Failed to delete drink", zap.Int64("drink_id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("Drink deleted", zap.Int64("drink_id", id))
	return nil
}
