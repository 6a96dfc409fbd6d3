package models

import (
	"fmt"
	"time"
)

// Track represents a single recording fetched from the platform.
//
// Immutable once fetched. Position is only meaningful within the source
// collection the track was read from.
type Track struct {
	ID          string `json:"id"`
	URI         string `json:"uri"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	ReleaseDate string `json:"release_date"` // Raw platform value: "2006", "2006-01" or "2006-01-02"
	Position    int    `json:"position"`
}

// Playlist represents a playlist on the platform.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// PlaylistExport represents a playlist together with its full track listing.
type PlaylistExport struct {
	Playlist Playlist `json:"playlist"`
	Tracks   []Track  `json:"tracks"`
}

// Model defines the base interface for persisted entities.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// SortRun records a completed sort operation: what was sorted and where the
// result landed. Implements [Model].
type SortRun struct {
	id           string
	sequence     int
	Source       string // "library" or "playlist"
	SourceID     string // Playlist ID when Source is "playlist"
	SourceName   string
	PlaylistID   string // Destination playlist, empty for in-place rewrites
	PlaylistName string
	TrackCount   int
	Reversed     bool
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewSortRun creates a SortRun with timestamps initialized to now.
func NewSortRun(source, sourceID, sourceName string) *SortRun {
	now := time.Now()
	return &SortRun{
		Source:     source,
		SourceID:   sourceID,
		SourceName: sourceName,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (r *SortRun) ID() string            { return r.id }
func (r *SortRun) Sequence() int         { return r.sequence }
func (r *SortRun) CreatedAt() time.Time  { return r.createdAt }
func (r *SortRun) UpdatedAt() time.Time  { return r.updatedAt }
func (r *SortRun) DeletedAt() *time.Time { return r.deletedAt }

func (r *SortRun) SetID(id string)           { r.id = id }
func (r *SortRun) SetSequence(seq int)       { r.sequence = seq }
func (r *SortRun) SetCreatedAt(t time.Time)  { r.createdAt = t }
func (r *SortRun) SetUpdatedAt(t time.Time)  { r.updatedAt = t }
func (r *SortRun) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// Validate checks that the run references a known source kind.
func (r *SortRun) Validate() error {
	switch r.Source {
	case "library", "playlist":
	default:
		return fmt.Errorf("unknown source %q", r.Source)
	}
	if r.Source == "playlist" && r.SourceID == "" {
		return fmt.Errorf("playlist run requires a source ID")
	}
	if r.TrackCount < 0 {
		return fmt.Errorf("negative track count")
	}
	return nil
}
