package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/carousel/internal/slide"
)

// Position is the last shown slide. Count and Source identify the slide
// list it was recorded against.
type Position struct {
	Index          int
	Count          int
	Source         string
	ManuallyPaused bool
	UpdatedAt      time.Time
}

// NewPosition records index within reg.
func NewPosition(reg *slide.Registry, index int, manuallyPaused bool) Position {
	return Position{
		Index:          index,
		Count:          reg.Count(),
		Source:         reg.Get(index).Source,
		ManuallyPaused: manuallyPaused,
	}
}

// StartIndex returns the index to resume at. A position recorded against a
// different slide list resumes at 0.
func (p *Position) StartIndex(reg *slide.Registry) int {
	if p == nil || p.Count != reg.Count() || !reg.Contains(p.Index) {
		return 0
	}
	if reg.Get(p.Index).Source != p.Source {
		return 0
	}
	return p.Index
}

func getPosition(db *sql.DB) (*Position, error) {
	row := db.QueryRow(`
		SELECT current_index, slide_count, source, manually_paused, updated_at
		FROM carousel_state WHERE id = 1
	`)

	var pos Position
	var source sql.NullString
	var updatedAt int64

	err := row.Scan(&pos.Index, &pos.Count, &source, &pos.ManuallyPaused, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved position is valid on first run
	}
	if err != nil {
		return nil, err
	}

	if source.Valid {
		pos.Source = source.String
	}
	pos.UpdatedAt = time.Unix(updatedAt, 0)

	return &pos, nil
}

func savePosition(db *sql.DB, pos Position) error {
	updatedAt := pos.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO carousel_state (id, current_index, slide_count, source, manually_paused, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_index = excluded.current_index,
			slide_count = excluded.slide_count,
			source = excluded.source,
			manually_paused = excluded.manually_paused,
			updated_at = excluded.updated_at
	`, pos.Index, pos.Count, pos.Source, pos.ManuallyPaused, updatedAt.Unix())

	return err
}
