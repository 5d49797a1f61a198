package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wisechats/leadboard/api/internal/entity"
)

var (
	// ErrNicheNotFound is returned when no niche matches the lookup.
	ErrNicheNotFound = errors.New("niche not found")
	// ErrNicheDuplicate is returned when the user already has a niche
	// with the same name.
	ErrNicheDuplicate = errors.New("niche already exists")
)

// NichesRepository describes persistence operations for niches.
type NichesRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]entity.Niche, error)
	Create(ctx context.Context, userID uuid.UUID, name string) (*entity.Niche, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// PGXNichesRepository implements NichesRepository using pgx.
type PGXNichesRepository struct {
	pool pgxPool
}

// NewPGXNichesRepository wires a pgx backed repository.
func NewPGXNichesRepository(pool *pgxpool.Pool) *PGXNichesRepository {
	return &PGXNichesRepository{pool: pool}
}

// List returns the user's niches ordered by name.
func (r *PGXNichesRepository) List(ctx context.Context, userID uuid.UUID) ([]entity.Niche, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, name, created_at FROM niches WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list niches: %w", err)
	}
	defer rows.Close()

	var niches []entity.Niche
	for rows.Next() {
		var niche entity.Niche
		if err := rows.Scan(&niche.ID, &niche.UserID, &niche.Name, &niche.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan niche row: %w", err)
		}
		niches = append(niches, niche)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate niches: %w", err)
	}
	return niches, nil
}

// Create inserts a new niche for the user.
func (r *PGXNichesRepository) Create(ctx context.Context, userID uuid.UUID, name string) (*entity.Niche, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO niches (user_id, name)
        VALUES ($1, $2)
        RETURNING id, user_id, name, created_at
    `, userID, name)

	var niche entity.Niche
	if err := row.Scan(&niche.ID, &niche.UserID, &niche.Name, &niche.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.Message, "niches_user_id_name_key") {
			return nil, fmt.Errorf("%w: %v", ErrNicheDuplicate, pgErr)
		}
		return nil, fmt.Errorf("insert niche: %w", err)
	}

	return &niche, nil
}

// Delete removes a niche owned by the user.
func (r *PGXNichesRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM niches WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete niche: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNicheNotFound
	}
	return nil
}
