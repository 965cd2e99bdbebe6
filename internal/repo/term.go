package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/avogt/rxminder/internal/domain"
)

// TermRepo defines the persistence operations for schedule terms.
// The term table is a fixed lookup set: it is seeded once and never mutated
// afterwards, so the interface exposes no update or delete.
type TermRepo interface {
	// SeedIfEmpty bulk-inserts the canonical nine-term set when the table is
	// empty. Idempotent — safe to call on every server start.
	SeedIfEmpty(ctx context.Context) error

	// List returns all terms ordered by sort_order ascending.
	List(ctx context.Context) ([]domain.ScheduleTerm, error)
}

// pgTermRepo is the Postgres implementation of TermRepo.
type pgTermRepo struct {
	db db
}

// NewTermRepo constructs a TermRepo backed by the provided db connection.
func NewTermRepo(db db) TermRepo {
	return &pgTermRepo{db: db}
}

// SeedIfEmpty inserts the default terms when the table holds no rows.
// ON CONFLICT DO NOTHING makes concurrent seeding from two store-opens safe.
func (r *pgTermRepo) SeedIfEmpty(ctx context.Context) error {
	const countQ = `SELECT count(*) FROM schedule_terms`

	var count int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&count); err != nil {
		return fmt.Errorf("repo.TermRepo.SeedIfEmpty: count: %w", err)
	}
	if count > 0 {
		return nil
	}

	const insertQ = `
		INSERT INTO schedule_terms (id, label, sort_order)
		VALUES (@id, @label, @sort_order)
		ON CONFLICT (id) DO NOTHING`

	for _, t := range domain.DefaultTerms() {
		args := pgx.NamedArgs{"id": t.ID, "label": t.Label, "sort_order": t.SortOrder}
		if _, err := r.db.Exec(ctx, insertQ, args); err != nil {
			return fmt.Errorf("repo.TermRepo.SeedIfEmpty: insert term %d: %w", t.ID, err)
		}
	}
	return nil
}

// List returns all terms ordered by sort_order ascending.
func (r *pgTermRepo) List(ctx context.Context) ([]domain.ScheduleTerm, error) {
	const q = `
		SELECT id, label, sort_order
		FROM schedule_terms
		ORDER BY sort_order`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TermRepo.List: %w", err)
	}
	defer rows.Close()

	terms := []domain.ScheduleTerm{}
	for rows.Next() {
		var t domain.ScheduleTerm
		if err := rows.Scan(&t.ID, &t.Label, &t.SortOrder); err != nil {
			return nil, fmt.Errorf("repo.TermRepo.List: scan: %w", err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TermRepo.List: rows: %w", err)
	}
	return terms, nil
}
