package model

import (
	"time"

	"github.com/hyejinmo/pixelo/internal/axis"
)

// AcquisitionType says how a catalog object is unlocked.
type AcquisitionType string

const (
	AcquireByAxisScore AcquisitionType = "axis_score"
	AcquireByDay       AcquisitionType = "day"
	AcquireDefault     AcquisitionType = "default"
)

type ObjectCategory struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	LayerOrder int    `json:"layer_order"`
}

// Object is a placeable catalog item. The acquisition columns are only
// meaningful for their type: AxisCode/MinScore/MaxScore for axis_score,
// AcquisitionDay for day.
type Object struct {
	ID              int64           `json:"id"`
	SeasonID        int64           `json:"season_id"`
	CategoryID      int64           `json:"category_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	ImageURL        string          `json:"image_url"`
	ThumbnailURL    string          `json:"thumbnail_url"`
	AxisCode        *axis.Code      `json:"axis_code"`
	MinScore        *int            `json:"min_score"`
	MaxScore        *int            `json:"max_score"`
	DefaultX        int             `json:"default_x"`
	DefaultY        int             `json:"default_y"`
	Width           *int            `json:"width"`
	Height          *int            `json:"height"`
	IsMovable       bool            `json:"is_movable"`
	IsResizable     bool            `json:"is_resizable"`
	AcquisitionType AcquisitionType `json:"acquisition_type"`
	AcquisitionDay  *int            `json:"acquisition_day"`
	CreatedAt       time.Time       `json:"created_at"`
}

// UserObject records a single acquisition. One row per (user, object),
// never re-granted.
type UserObject struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	ObjectID       int64     `json:"object_id"`
	AcquiredAt     time.Time `json:"acquired_at"`
	AcquiredReason string    `json:"acquired_reason"`
}

// InventoryItem joins an acquisition with its catalog object and placement
// state for the inventory endpoint.
type InventoryItem struct {
	UserObject UserObject `json:"user_object"`
	Object     Object     `json:"object"`
	IsPlaced   bool       `json:"is_placed"`
}
