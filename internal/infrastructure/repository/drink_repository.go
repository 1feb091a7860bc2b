package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/manorfm/coffee-shop/internal/domain"
	"github.com/manorfm/coffee-shop/internal/infrastructure/database"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type DrinkRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

func NewDrinkRepository(db *database.Postgres, logger *zap.Logger) domain.DrinkRepository {
	return &DrinkRepository{db: db, logger: logger}
}

func (r *DrinkRepository) List(ctx context.Context) ([]*domain.Drink, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, recipe, created_at, updated_at
		FROM drinks
		ORDER BY id
	`)
	if err != nil {
		r.logger.Error("failed to list drinks", zap.Error(err))
		return nil, fmt.Errorf("list drinks: %w", err)
	}
	defer rows.Close()

	drinks := make([]*domain.Drink, 0)
	for rows.Next() {
		drink, err := scanDrink(rows)
		if err != nil {
			return nil, err
		}
		drinks = append(drinks, drink)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drinks: %w", err)
	}
	return drinks, nil
}

func (r *DrinkRepository) FindByID(ctx context.Context, id int64) (*domain.Drink, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, title, recipe, created_at, updated_at
		FROM drinks WHERE id = $1
	`, id)
	drink, err := scanDrink(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDrinkNotFound
		}
		r.logger.Error("failed to find drink by id", zap.Int64("drink_id", id), zap.Error(err))
		return nil, err
	}
	return drink, nil
}

func (r *DrinkRepository) Insert(ctx context.Context, drink *domain.Drink) error {
	recipe, err := json.Marshal(drink.Recipe)
	if err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO drinks (title, recipe, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, drink.Title, recipe, drink.CreatedAt, drink.UpdatedAt).Scan(&drink.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDrinkAlreadyExists
		}
		r.logger.Error("failed to insert drink", zap.String("title", drink.Title), zap.Error(err))
		return fmt.Errorf("insert drink: %w", err)
	}
	return nil
}

func (r *DrinkRepository) Update(ctx context.Context, drink *domain.Drink) error {
	recipe, err := json.Marshal(drink.Recipe)
	if err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE drinks
		SET title = $1, recipe = $2, updated_at = $3
		WHERE id = $4
	`, drink.Title, recipe, drink.UpdatedAt, drink.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDrinkAlreadyExists
		}
		return fmt.Errorf("update drink: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDrinkNotFound
	}
	return nil
}

func (r *DrinkRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM drinks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete drink: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDrinkNotFound
	}
	return nil
}

func scanDrink(row pgx.Row) (*domain.Drink, error) {
	drink := &domain.Drink{}
	var recipe []byte
	if err := row.Scan(&drink.ID, &drink.Title, &recipe, &drink.CreatedAt, &drink.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(recipe, &drink.Recipe); err != nil {
		return nil, fmt.Errorf("decode recipe of drink %d: %w", drink.ID, err)
	}
	return drink, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
