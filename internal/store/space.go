package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyejinmo/pixelo/internal/model"
	"github.com/hyejinmo/pixelo/internal/space"
)

var (
	ErrObjectNotOwned  = errors.New("object not owned")
	ErrObjectNotPlaced = errors.New("object not placed")
)

// PlacementError carries the validation reason for a rejected placement.
type PlacementError struct {
	Reason string
}

func (e *PlacementError) Error() string {
	return "invalid placement: " + e.Reason
}

type SpaceStore struct {
	db *sql.DB
}

func NewSpaceStore(db *sql.DB) *SpaceStore {
	return &SpaceStore{db: db}
}

const spaceCols = `id, user_id, season_id, is_public, layout, last_edited_at, created_at`

func scanSpace(scanner interface{ Scan(...any) error }) (*model.Space, error) {
	var sp model.Space
	var layout string
	err := scanner.Scan(&sp.ID, &sp.UserID, &sp.SeasonID, &sp.IsPublic, &layout,
		&sp.LastEditedAt, &sp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan space: %w", err)
	}
	sp.Layout, err = decodeLayout(layout)
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// The layout column stores snake_case records; decode converts them back
// to the camelCase placements the rest of the code uses.
func decodeLayout(raw string) ([]space.Placement, error) {
	if raw == "" {
		return nil, nil
	}
	var records []space.StorageRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return space.FromRecords(records), nil
}

func encodeLayout(layout []space.Placement) (string, error) {
	records := space.ToRecords(layout)
	if records == nil {
		records = []space.StorageRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode layout: %w", err)
	}
	return string(raw), nil
}

// GetOrCreate returns the user's space for a season, creating an empty
// public one on first access.
func (s *SpaceStore) GetOrCreate(userID, seasonID int64) (*model.Space, error) {
	_, err := s.db.Exec(
		`INSERT INTO spaces (user_id, season_id) VALUES (?, ?)
		 ON CONFLICT(user_id, season_id) DO NOTHING`,
		userID, seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure space: %w", err)
	}
	return s.Get(userID, seasonID)
}

func (s *SpaceStore) Get(userID, seasonID int64) (*model.Space, error) {
	row := s.db.QueryRow(
		`SELECT `+spaceCols+` FROM spaces WHERE user_id = ? AND season_id = ?`,
		userID, seasonID,
	)
	return scanSpace(row)
}

// Place validates and applies one placement inside a transaction. The
// object must already be in the user's inventory. When autoZIndex is set
// the placement goes on top of the current stack.
func (s *SpaceStore) Place(userID, seasonID int64, p space.Placement, autoZIndex bool) (*model.Space, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var owned int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM user_objects WHERE user_id = ? AND object_id = ?`,
		userID, p.ObjectID,
	).Scan(&owned)
	if err != nil {
		return nil, fmt.Errorf("check ownership: %w", err)
	}
	if owned == 0 {
		return nil, ErrObjectNotOwned
	}

	sp, err := getOrCreateSpaceTx(tx, userID, seasonID)
	if err != nil {
		return nil, err
	}

	if autoZIndex {
		p.ZIndex = space.NextZIndex(sp.Layout)
	}

	// Re-placing an already-placed object moves it, so the duplicate
	// check runs against the rest of the layout and Apply replaces the
	// old entry.
	others, _ := space.Remove(sp.Layout, p.ObjectID)
	if v := space.ValidatePlacement(p, space.DefaultGridSize, space.DefaultGridSize, others); !v.Valid {
		return nil, &PlacementError{Reason: v.Reason}
	}

	layout, _ := space.Apply(sp.Layout, p)
	if err := saveLayoutTx(tx, sp.ID, layout); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	sp.Layout = layout
	return sp, nil
}

// RemoveObject takes one object out of the layout. The object stays in
// the inventory.
func (s *SpaceStore) RemoveObject(userID, seasonID, objectID int64) (*model.Space, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sp, err := getOrCreateSpaceTx(tx, userID, seasonID)
	if err != nil {
		return nil, err
	}

	layout, removed := space.Remove(sp.Layout, objectID)
	if !removed {
		return nil, ErrObjectNotPlaced
	}
	if err := saveLayoutTx(tx, sp.ID, layout); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	sp.Layout = layout
	return sp, nil
}

func (s *SpaceStore) SetVisibility(userID, seasonID int64, isPublic bool) error {
	_, err := s.db.Exec(
		`UPDATE spaces SET is_public = ? WHERE user_id = ? AND season_id = ?`,
		isPublic, userID, seasonID,
	)
	if err != nil {
		return fmt.Errorf("set visibility: %w", err)
	}
	return nil
}

// PlacedIDs returns the object ids currently in the user's layout, used
// to mark inventory items as placed.
func (s *SpaceStore) PlacedIDs(userID, seasonID int64) (map[int64]bool, error) {
	sp, err := s.Get(userID, seasonID)
	if err != nil {
		return nil, err
	}
	placed := make(map[int64]bool)
	if sp == nil {
		return placed, nil
	}
	for _, p := range sp.Layout {
		placed[p.ObjectID] = true
	}
	return placed, nil
}

func getOrCreateSpaceTx(tx dbtx, userID, seasonID int64) (*model.Space, error) {
	_, err := tx.Exec(
		`INSERT INTO spaces (user_id, season_id) VALUES (?, ?)
		 ON CONFLICT(user_id, season_id) DO NOTHING`,
		userID, seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure space: %w", err)
	}
	row := tx.QueryRow(
		`SELECT `+spaceCols+` FROM spaces WHERE user_id = ? AND season_id = ?`,
		userID, seasonID,
	)
	return scanSpace(row)
}

func saveLayoutTx(tx dbtx, spaceID int64, layout []space.Placement) error {
	encoded, err := encodeLayout(layout)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		`UPDATE spaces SET layout = ?, last_edited_at = CURRENT_TIMESTAMP WHERE id = ?`,
		encoded, spaceID,
	)
	if err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}
