// Package repo contains all database access logic for the medication reminder API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avogt/rxminder/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// foreignKeyViolation is the Postgres error code raised when an insert or
// update names a schedule term that does not exist.
const foreignKeyViolation = "23503"

// PrescriptionRepo defines the persistence operations for prescriptions.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type PrescriptionRepo interface {
	// Create inserts a new prescription and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated). The derived flags
	// start false; the recompute engine brings is_active in sync on its next run.
	Create(ctx context.Context, p domain.Prescription) (domain.Prescription, error)

	// GetByID retrieves a single prescription by primary key.
	// Returns domain.ErrNotFound if no prescription with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Prescription, error)

	// List returns all prescriptions ordered by id descending (newest first).
	List(ctx context.Context) ([]domain.Prescription, error)

	// UpdateFields applies the non-nil fields of patch to an existing
	// prescription and returns the number of rows affected (0 when the id does
	// not exist — not an error).
	UpdateFields(ctx context.Context, id int64, patch domain.PrescriptionPatch) (int64, error)

	// Delete removes a prescription by primary key and returns the number of
	// rows affected. Deleting a missing id affects 0 rows and is not an error.
	Delete(ctx context.Context, id int64) (int64, error)

	// MarkReceivedToday sets last_date_received = today and
	// has_received_today = true for the matching id, unconditionally.
	// Returns the number of rows affected (0 when the id does not exist).
	MarkReceivedToday(ctx context.Context, id int64, today string) (int64, error)

	// DailyRecompute refreshes the derived flags of every prescription against
	// today in one UPDATE statement: is_active becomes the inclusive
	// date-range test, and has_received_today is cleared unless
	// last_date_received equals today. The single statement keeps the two
	// effects atomic, so a same-day MarkReceivedToday racing with a recompute
	// is never lost, and re-running with the same date is a no-op.
	DailyRecompute(ctx context.Context, today string) error
}

// pgPrescriptionRepo is the Postgres implementation of PrescriptionRepo.
type pgPrescriptionRepo struct {
	db db
}

// NewPrescriptionRepo constructs a PrescriptionRepo backed by the provided db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPrescriptionRepo(db db) PrescriptionRepo {
	return &pgPrescriptionRepo{db: db}
}

const prescriptionColumns = `id, short_name, description, start_date, end_date,
		time_term_id, doctor_name, doctor_location, is_active,
		has_received_today, last_date_received, created_at, updated_at`

// Create inserts a new prescription row and returns the full persisted record.
func (r *pgPrescriptionRepo) Create(ctx context.Context, p domain.Prescription) (domain.Prescription, error) {
	const q = `
		INSERT INTO prescriptions
			(short_name, description, start_date, end_date, time_term_id,
			 doctor_name, doctor_location)
		VALUES
			(@short_name, @description, @start_date, @end_date, @time_term_id,
			 @doctor_name, @doctor_location)
		RETURNING ` + prescriptionColumns

	args := pgx.NamedArgs{
		"short_name":      p.Name,
		"description":     p.Description,
		"start_date":      p.StartDate,
		"end_date":        p.EndDate,
		"time_term_id":    p.TermID,
		"doctor_name":     p.DoctorName,
		"doctor_location": p.DoctorLocation,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPrescription(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Prescription{}, fmt.Errorf(
				"repo.PrescriptionRepo.Create: %w: schedule term %d does not exist",
				domain.ErrValidation, p.TermID)
		}
		return domain.Prescription{}, fmt.Errorf("repo.PrescriptionRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a prescription by primary key.
func (r *pgPrescriptionRepo) GetByID(ctx context.Context, id int64) (domain.Prescription, error) {
	const q = `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanPrescription(row)
	if err != nil {
		return domain.Prescription{}, fmt.Errorf("repo.PrescriptionRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all prescriptions ordered by id descending (newest first).
// Filtering and activity ordering belong to the projector, not the store.
func (r *pgPrescriptionRepo) List(ctx context.Context) ([]domain.Prescription, error) {
	const q = `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions
		ORDER BY id DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PrescriptionRepo.List: %w", err)
	}
	defer rows.Close()

	var prescriptions []domain.Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PrescriptionRepo.List: scan: %w", err)
		}
		prescriptions = append(prescriptions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PrescriptionRepo.List: rows: %w", err)
	}

	return prescriptions, nil
}

// UpdateFields applies the non-nil patch fields in a single UPDATE.
// COALESCE keeps the stored value wherever the patch passes NULL, so the
// statement is the same regardless of which fields are present.
func (r *pgPrescriptionRepo) UpdateFields(ctx context.Context, id int64, patch domain.PrescriptionPatch) (int64, error) {
	const q = `
		UPDATE prescriptions
		SET short_name      = COALESCE(@short_name, short_name),
		    description     = COALESCE(@description, description),
		    start_date      = COALESCE(@start_date, start_date),
		    end_date        = COALESCE(@end_date, end_date),
		    time_term_id    = COALESCE(@time_term_id, time_term_id),
		    doctor_name     = COALESCE(@doctor_name, doctor_name),
		    doctor_location = COALESCE(@doctor_location, doctor_location),
		    updated_at      = now()
		WHERE id = @id`

	args := pgx.NamedArgs{
		"id":              id,
		"short_name":      patch.Name,
		"description":     patch.Description,
		"start_date":      patch.StartDate,
		"end_date":        patch.EndDate,
		"time_term_id":    patch.TermID,
		"doctor_name":     patch.DoctorName,
		"doctor_location": patch.DoctorLocation,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf(
				"repo.PrescriptionRepo.UpdateFields: %w: schedule term does not exist",
				domain.ErrValidation)
		}
		return 0, fmt.Errorf("repo.PrescriptionRepo.UpdateFields: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes a prescription by primary key.
// A missing id affects 0 rows; deletion is idempotent.
func (r *pgPrescriptionRepo) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM prescriptions WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return 0, fmt.Errorf("repo.PrescriptionRepo.Delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkReceivedToday records that the medication was taken today.
func (r *pgPrescriptionRepo) MarkReceivedToday(ctx context.Context, id int64, today string) (int64, error) {
	const q = `
		UPDATE prescriptions
		SET last_date_received = @today,
		    has_received_today = TRUE,
		    updated_at         = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "today": today})
	if err != nil {
		return 0, fmt.Errorf("repo.PrescriptionRepo.MarkReceivedToday: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DailyRecompute refreshes is_active and has_received_today for every row.
// Both flags change in one statement; a concurrent reader sees either the
// state before the batch or after it, never a half-applied mix.
func (r *pgPrescriptionRepo) DailyRecompute(ctx context.Context, today string) error {
	const q = `
		UPDATE prescriptions
		SET has_received_today = CASE
		        WHEN last_date_received = @today THEN has_received_today
		        ELSE FALSE
		    END,
		    is_active = (start_date <= @today AND end_date >= @today)`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"today": today}); err != nil {
		return fmt.Errorf("repo.PrescriptionRepo.DailyRecompute: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanPrescription
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanPrescription maps a single database row into a domain.Prescription.
func scanPrescription(s scanner) (domain.Prescription, error) {
	var p domain.Prescription

	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate,
		&p.TermID, &p.DoctorName, &p.DoctorLocation, &p.Active,
		&p.ReceivedToday, &p.LastReceived, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Prescription{}, domain.ErrNotFound
		}
		return domain.Prescription{}, err
	}

	return p, nil
}

// isForeignKeyViolation reports whether err is a Postgres FK constraint error.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
