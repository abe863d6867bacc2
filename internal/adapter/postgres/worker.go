package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskport/worker-match-system/internal/domain/models"
	"github.com/taskport/worker-match-system/internal/domain/types"
	"github.com/taskport/worker-match-system/pkg/metrics"
)

const serviceComponent = "postgres"

// WorkerRepo reads the worker directory. Persons are flagged as workers in
// the persons table; the companion worker_profiles row may lag behind, so
// every read joins it with LEFT JOIN and surfaces its absence as a nil ID.
type WorkerRepo struct {
	db *pgxpool.Pool
}

func NewWorkerRepo(db *pgxpool.Pool) *WorkerRepo {
	return &WorkerRepo{
		db: db,
	}
}

const candidateColumns = `
	p.id,
	wp.id,
	p.display_name,
	COALESCE(p.postal_code, ''),
	p.latitude,
	p.longitude`

// QueryByBoundingBox returns worker candidates whose stored coordinates fall
// inside the box. Workers without coordinates never match here.
func (r *WorkerRepo) QueryByBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]models.WorkerCandidate, error) {
	const op = "WorkerRepo.QueryByBoundingBox"
	query := `
		SELECT ` + candidateColumns + `
		FROM persons p
		LEFT JOIN worker_profiles wp ON wp.person_id = p.id
		WHERE p.is_worker = TRUE
		  AND p.latitude BETWEEN $1 AND $2
		  AND p.longitude BETWEEN $3 AND $4`

	rows, err := r.db.Query(ctx, query, minLat, maxLat, minLon, maxLon)
	metrics.RecordDatabaseQuery(serviceComponent, "worker_box_query", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", op, err)
	}
	defer rows.Close()

	return scanCandidates(op, rows)
}

// QueryAll returns every worker candidate. Used as the exhaustive fallback
// when the box query is unavailable or empty.
func (r *WorkerRepo) QueryAll(ctx context.Context) ([]models.WorkerCandidate, error) {
	const op = "WorkerRepo.QueryAll"
	query := `
		SELECT ` + candidateColumns + `
		FROM persons p
		LEFT JOIN worker_profiles wp ON wp.person_id = p.id
		WHERE p.is_worker = TRUE`

	rows, err := r.db.Query(ctx, query)
	metrics.RecordDatabaseQuery(serviceComponent, "worker_full_scan", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", op, err)
	}
	defer rows.Close()

	return scanCandidates(op, rows)
}

// QueryUnlocated returns workers carrying a postal code but no coordinates.
func (r *WorkerRepo) QueryUnlocated(ctx context.Context) ([]models.WorkerCandidate, error) {
	const op = "WorkerRepo.QueryUnlocated"
	query := `
		SELECT ` + candidateColumns + `
		FROM persons p
		LEFT JOIN worker_profiles wp ON wp.person_id = p.id
		WHERE p.is_worker = TRUE
		  AND (p.latitude IS NULL OR p.longitude IS NULL)
		  AND COALESCE(p.postal_code, '') <> ''`

	rows, err := r.db.Query(ctx, query)
	metrics.RecordDatabaseQuery(serviceComponent, "worker_unlocated_query", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", op, err)
	}
	defer rows.Close()

	return scanCandidates(op, rows)
}

// WorkerProfileID returns the companion worker-profile ID for a person, or
// nil when the profile record does not exist yet.
func (r *WorkerRepo) WorkerProfileID(ctx context.Context, personID uuid.UUID) (*uuid.UUID, error) {
	const op = "WorkerRepo.WorkerProfileID"
	query := `
		SELECT id FROM worker_profiles
		WHERE person_id = $1`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query, personID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.RecordDatabaseQuery(serviceComponent, "worker_profile_lookup", nil)
		return nil, nil
	}
	metrics.RecordDatabaseQuery(serviceComponent, "worker_profile_lookup", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", op, err)
	}

	return &id, nil
}

// StoredLocation reads a requester's saved profile location.
func (r *WorkerRepo) StoredLocation(ctx context.Context, requesterID uuid.UUID) (models.StoredLocation, error) {
	const op = "WorkerRepo.StoredLocation"
	query := `
		SELECT latitude, longitude, COALESCE(address, ''), COALESCE(postal_code, '')
		FROM persons
		WHERE id = $1`

	var loc models.StoredLocation
	err := r.db.QueryRow(ctx, query, requesterID).Scan(
		&loc.Latitude,
		&loc.Longitude,
		&loc.Label,
		&loc.PostalCode,
	)
	metrics.RecordDatabaseQuery(serviceComponent, "stored_location_lookup", err)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.StoredLocation{}, types.ErrNotFound
	}
	if err != nil {
		return models.StoredLocation{}, fmt.Errorf("%s: %v", op, err)
	}

	return loc, nil
}

func scanCandidates(op string, rows pgx.Rows) ([]models.WorkerCandidate, error) {
	var candidates []models.WorkerCandidate
	for rows.Next() {
		var c models.WorkerCandidate
		if err := rows.Scan(
			&c.PersonID,
			&c.WorkerProfileID,
			&c.DisplayName,
			&c.PostalCode,
			&c.Latitude,
			&c.Longitude,
		); err != nil {
			return nil, fmt.Errorf("%s: %v", op, err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %v", op, err)
	}

	return candidates, nil
}
