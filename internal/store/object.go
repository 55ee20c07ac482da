package store

import (
	"database/sql"
	"fmt"

	"github.com/hyejinmo/pixelo/internal/axis"
	"github.com/hyejinmo/pixelo/internal/catalog"
	"github.com/hyejinmo/pixelo/internal/model"
)

type ObjectStore struct {
	db *sql.DB
}

func NewObjectStore(db *sql.DB) *ObjectStore {
	return &ObjectStore{db: db}
}

const objectCols = `id, season_id, category_id, name, description, image_url, thumbnail_url,
	axis_code, min_score, max_score, default_x, default_y, width, height,
	is_movable, is_resizable, acquisition_type, acquisition_day, created_at`

func scanObject(scanner interface{ Scan(...any) error }) (*model.Object, error) {
	var o model.Object
	var axisCode sql.NullString
	var acqType string
	err := scanner.Scan(
		&o.ID, &o.SeasonID, &o.CategoryID, &o.Name, &o.Description, &o.ImageURL, &o.ThumbnailURL,
		&axisCode, &o.MinScore, &o.MaxScore, &o.DefaultX, &o.DefaultY, &o.Width, &o.Height,
		&o.IsMovable, &o.IsResizable, &acqType, &o.AcquisitionDay, &o.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan object: %w", err)
	}
	if axisCode.Valid {
		code := axis.Code(axisCode.String)
		o.AxisCode = &code
	}
	o.AcquisitionType = model.AcquisitionType(acqType)
	return &o, nil
}

type CreateObjectParams struct {
	SeasonID        int64
	CategoryID      int64
	Name            string
	Description     string
	ImageURL        string
	ThumbnailURL    string
	AxisCode        *axis.Code
	MinScore        *int
	MaxScore        *int
	DefaultX        int
	DefaultY        int
	Width           *int
	Height          *int
	IsMovable       bool
	IsResizable     bool
	AcquisitionType model.AcquisitionType
	AcquisitionDay  *int
}

func (s *ObjectStore) Create(p CreateObjectParams) (*model.Object, error) {
	var axisCode any
	if p.AxisCode != nil {
		axisCode = string(*p.AxisCode)
	}
	result, err := s.db.Exec(
		`INSERT INTO objects (season_id, category_id, name, description, image_url, thumbnail_url,
		   axis_code, min_score, max_score, default_x, default_y, width, height,
		   is_movable, is_resizable, acquisition_type, acquisition_day)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SeasonID, p.CategoryID, p.Name, p.Description, p.ImageURL, p.ThumbnailURL,
		axisCode, p.MinScore, p.MaxScore, p.DefaultX, p.DefaultY, p.Width, p.Height,
		p.IsMovable, p.IsResizable, string(p.AcquisitionType), p.AcquisitionDay,
	)
	if err != nil {
		return nil, fmt.Errorf("create object: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ObjectStore) GetByID(id int64) (*model.Object, error) {
	row := s.db.QueryRow(`SELECT `+objectCols+` FROM objects WHERE id = ?`, id)
	return scanObject(row)
}

// ListForSeason returns the full catalog for a season in id order.
func (s *ObjectStore) ListForSeason(seasonID int64) ([]model.Object, error) {
	return listSeasonObjects(s.db, seasonID)
}

func listSeasonObjects(q dbtx, seasonID int64) ([]model.Object, error) {
	rows, err := q.Query(`SELECT `+objectCols+` FROM objects WHERE season_id = ? ORDER BY id ASC`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	defer rows.Close()

	var objects []model.Object
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		objects = append(objects, *o)
	}
	return objects, rows.Err()
}

// AcquiredIDs returns the ids of every object the user has ever unlocked.
func (s *ObjectStore) AcquiredIDs(userID int64) ([]int64, error) {
	return listAcquiredIDs(s.db, userID)
}

func listAcquiredIDs(q dbtx, userID int64) ([]int64, error) {
	rows, err := q.Query(`SELECT object_id FROM user_objects WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list acquired ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan acquired id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Grant records an acquisition. Re-granting an already owned object is a
// no-op and reports granted=false.
func (s *ObjectStore) Grant(userID, objectID int64, reason string) (bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO user_objects (user_id, object_id, acquired_reason) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, object_id) DO NOTHING`,
		userID, objectID, reason,
	)
	if err != nil {
		return false, fmt.Errorf("grant object: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Inventory returns everything the user owns in a season, joined with the
// catalog entry and whether the object currently sits in the space layout.
func (s *ObjectStore) Inventory(userID, seasonID int64, placedIDs map[int64]bool) ([]model.InventoryItem, error) {
	rows, err := s.db.Query(
		`SELECT uo.id, uo.user_id, uo.object_id, uo.acquired_at, uo.acquired_reason,
		   o.id, o.season_id, o.category_id, o.name, o.description, o.image_url, o.thumbnail_url,
		   o.axis_code, o.min_score, o.max_score, o.default_x, o.default_y, o.width, o.height,
		   o.is_movable, o.is_resizable, o.acquisition_type, o.acquisition_day, o.created_at
		 FROM user_objects uo
		 JOIN objects o ON o.id = uo.object_id
		 WHERE uo.user_id = ? AND o.season_id = ?
		 ORDER BY uo.acquired_at ASC, uo.id ASC`,
		userID, seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		var item model.InventoryItem
		var axisCode sql.NullString
		var acqType string
		o := &item.Object
		uo := &item.UserObject
		err := rows.Scan(
			&uo.ID, &uo.UserID, &uo.ObjectID, &uo.AcquiredAt, &uo.AcquiredReason,
			&o.ID, &o.SeasonID, &o.CategoryID, &o.Name, &o.Description, &o.ImageURL, &o.ThumbnailURL,
			&axisCode, &o.MinScore, &o.MaxScore, &o.DefaultX, &o.DefaultY, &o.Width, &o.Height,
			&o.IsMovable, &o.IsResizable, &acqType, &o.AcquisitionDay, &o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		if axisCode.Valid {
			code := axis.Code(axisCode.String)
			o.AxisCode = &code
		}
		o.AcquisitionType = model.AcquisitionType(acqType)
		item.IsPlaced = placedIDs[uo.ObjectID]
		items = append(items, item)
	}
	return items, rows.Err()
}

// SyncAcquired grants everything the user's current scores entitle them to
// but that they do not own yet. It backfills users whose scores crossed an
// unlock threshold outside the answer flow, such as after a season reset.
func (s *ObjectStore) SyncAcquired(userID, seasonID int64, scores map[axis.Code]axis.Aggregate) ([]catalog.Acquisition, error) {
	objects, err := listSeasonObjects(s.db, seasonID)
	if err != nil {
		return nil, err
	}
	acquiredIDs, err := listAcquiredIDs(s.db, userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[int64]bool, len(acquiredIDs))
	for _, id := range acquiredIDs {
		owned[id] = true
	}

	var granted []catalog.Acquisition
	for _, acq := range catalog.Acquirable(objects, scores) {
		if owned[acq.Object.ID] {
			continue
		}
		if _, err := s.Grant(userID, acq.Object.ID, acq.Reason); err != nil {
			return nil, err
		}
		granted = append(granted, acq)
	}
	return granted, nil
}

func (s *ObjectStore) ListCategories() ([]model.ObjectCategory, error) {
	rows, err := s.db.Query(`SELECT id, code, name, layer_order FROM object_categories ORDER BY layer_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.ObjectCategory
	for rows.Next() {
		var c model.ObjectCategory
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.LayerOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
