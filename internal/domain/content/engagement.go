package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is one user's like of one item.
type Like struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContentKind Kind      `gorm:"not null;size:32;column:content_kind;uniqueIndex:idx_content_like_unique,priority:1" json:"contentKind"`
	ContentID   uuid.UUID `gorm:"type:uuid;not null;column:content_id;uniqueIndex:idx_content_like_unique,priority:2" json:"contentId"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_content_like_unique,priority:3" json:"userId"`
	CreatedAt   time.Time `gorm:"not null;column:created_at" json:"createdAt"`
}

func (Like) TableName() string { return "content_like" }

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

const DefaultReportReason = "Low quality content"

// Report is one user's report against one item; a user reports an item once.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContentKind Kind      `gorm:"not null;size:32;column:content_kind;uniqueIndex:idx_content_report_unique,priority:1" json:"contentKind"`
	ContentID   uuid.UUID `gorm:"type:uuid;not null;column:content_id;uniqueIndex:idx_content_report_unique,priority:2" json:"contentId"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_content_report_unique,priority:3" json:"userId"`
	Reason      string    `gorm:"not null;column:reason" json:"reason"`
	CreatedAt   time.Time `gorm:"not null;column:created_at" json:"createdAt"`
}

func (Report) TableName() string { return "content_report" }

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
