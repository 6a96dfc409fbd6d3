package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
)

// RunRepository implements models.Repository[*models.SortRun] for run history.
//
// Handles run CRUD operations with soft delete support.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.SortRun) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, sequence, source, source_id, source_name, playlist_id, playlist_name, track_count, reversed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.Source,
		run.SourceID,
		run.SourceName,
		run.PlaylistID,
		run.PlaylistName,
		run.TrackCount,
		run.Reversed,
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.SortRun, error) {
	query := `
		SELECT id, sequence, source, source_id, source_name, playlist_id, playlist_name, track_count, reversed, created_at, updated_at, deleted_at
		FROM runs
		WHERE id = ? AND deleted_at IS NULL
	`

	row := r.db.QueryRow(query, id)

	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	return run, nil
}

// Update modifies an existing run in the database
func (r *RunRepository) Update(run *models.SortRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET playlist_id = ?, playlist_name = ?, track_count = ?, reversed = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.PlaylistID,
		run.PlaylistName,
		run.TrackCount,
		run.Reversed,
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found or already deleted: %s", run.ID())
	}

	return nil
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all runs matching the given criteria, excluding soft-deleted runs
func (r *RunRepository) List(criteria map[string]any) ([]*models.SortRun, error) {
	query := `
		SELECT id, sequence, source, source_id, source_name, playlist_id, playlist_name, track_count, reversed, created_at, updated_at, deleted_at
		FROM runs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SortRun
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanRun scans a single row into a [models.SortRun] using the given Scan function
func scanRun(scan func(dest ...any) error) (*models.SortRun, error) {
	var (
		id           string
		sequence     int
		source       string
		sourceID     string
		sourceName   string
		playlistID   string
		playlistName string
		trackCount   int
		reversed     bool
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := scan(&id, &sequence, &source, &sourceID, &sourceName, &playlistID, &playlistName, &trackCount, &reversed, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	run := models.NewSortRun(source, sourceID, sourceName)
	run.SetID(id)
	run.SetSequence(sequence)
	run.PlaylistID = playlistID
	run.PlaylistName = playlistName
	run.TrackCount = trackCount
	run.Reversed = reversed
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}
