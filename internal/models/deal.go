package models

import (
	"time"

	"underwriter/internal/engine"
)

// Deal is one underwriting file: the full input snapshot plus cached
// summary columns from its most recent evaluation. The snapshot is the
// source of truth; the cached columns exist for listing and filtering
// without deserializing every snapshot.
type Deal struct {
	Base
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Reference string          `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`
	Name      string          `gorm:"not null" json:"name"`
	Product   engine.Product  `gorm:"not null;index" json:"product"`
	Snapshot  engine.Snapshot `gorm:"serializer:json" json:"snapshot"`
	Archived  bool            `gorm:"default:false;index" json:"archived"`

	// Cached from the last evaluation.
	CompositeScore float64    `json:"composite_score"`
	RatingTier     int        `gorm:"index" json:"rating_tier"`
	Recommendation string     `json:"recommendation"`
	EvaluatedAt    *time.Time `json:"evaluated_at,omitempty"`
}
