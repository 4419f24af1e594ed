package repository

import (
	"context"
	"database/sql"
	"errors"

	"roadwatch/internal/models"
)

// ErrRecordNotFound indicates no row for the requested id.
var ErrRecordNotFound = errors.New("record not found")

const recordColumns = "id, road_state, user_id, x, y, z, latitude, longitude, timestamp"

// RecordRepository persists processed agent data records.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository returns repository.
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// EnsureSchema declares the records table if it does not exist yet.
func (r *RecordRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS processed_agent_data (
			id BIGSERIAL PRIMARY KEY,
			road_state TEXT NOT NULL,
			user_id BIGINT NOT NULL,
			x DOUBLE PRECISION NOT NULL,
			y DOUBLE PRECISION NOT NULL,
			z DOUBLE PRECISION NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// Insert commits a new record and fills in the assigned id.
func (r *RecordRepository) Insert(ctx context.Context, record *models.ProcessedRecord) error {
	const query = `
		INSERT INTO processed_agent_data (road_state, user_id, x, y, z, latitude, longitude, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		record.RoadState,
		record.UserID,
		record.X,
		record.Y,
		record.Z,
		record.Latitude,
		record.Longitude,
		record.Timestamp,
	).Scan(&record.ID)
}

// Get returns the record with the given id.
func (r *RecordRepository) Get(ctx context.Context, id int64) (*models.ProcessedRecord, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM processed_agent_data
		WHERE id = $1
	`
	record, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

// List returns every stored record in insertion order.
func (r *RecordRepository) List(ctx context.Context) ([]models.ProcessedRecord, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM processed_agent_data
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ProcessedRecord
	for rows.Next() {
		var rec models.ProcessedRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.RoadState,
			&rec.UserID,
			&rec.X,
			&rec.Y,
			&rec.Z,
			&rec.Latitude,
			&rec.Longitude,
			&rec.Timestamp,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Update replaces every mutable field of the record with the given id.
func (r *RecordRepository) Update(ctx context.Context, id int64, record *models.ProcessedRecord) (*models.ProcessedRecord, error) {
	const query = `
		UPDATE processed_agent_data
		SET road_state = $2,
		    user_id = $3,
		    x = $4,
		    y = $5,
		    z = $6,
		    latitude = $7,
		    longitude = $8,
		    timestamp = $9
		WHERE id = $1
		RETURNING ` + recordColumns + `
	`
	updated, err := scanRecord(r.db.QueryRowContext(ctx, query,
		id,
		record.RoadState,
		record.UserID,
		record.X,
		record.Y,
		record.Z,
		record.Latitude,
		record.Longitude,
		record.Timestamp,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the record and returns its pre-delete snapshot.
func (r *RecordRepository) Delete(ctx context.Context, id int64) (*models.ProcessedRecord, error) {
	const query = `
		DELETE FROM processed_agent_data
		WHERE id = $1
		RETURNING ` + recordColumns + `
	`
	deleted, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return deleted, nil
}

func scanRecord(row *sql.Row) (*models.ProcessedRecord, error) {
	var rec models.ProcessedRecord
	if err := row.Scan(
		&rec.ID,
		&rec.RoadState,
		&rec.UserID,
		&rec.X,
		&rec.Y,
		&rec.Z,
		&rec.Latitude,
		&rec.Longitude,
		&rec.Timestamp,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
