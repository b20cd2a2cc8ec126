package content

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/campusshare-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrAlreadyReported = errors.New("already reported")
)

// EngagementRepo keeps the like/report join rows and the denormalized
// counters on notes and question papers in step.
type EngagementRepo interface {
	ToggleLike(dbc dbctx.Context, kind types.ContentKind, contentID, userID uuid.UUID) (liked bool, likeCount int, err error)
	HasLiked(dbc dbctx.Context, kind types.ContentKind, contentIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error)
	Report(dbc dbctx.Context, kind types.ContentKind, contentID, userID uuid.UUID, reason string) (reportCount int, err error)
	IncrementDownload(dbc dbctx.Context, kind types.ContentKind, contentID uuid.UUID) (downloadCount int, err error)
}

type engagementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEngagementRepo(db *gorm.DB, baseLog *logger.Logger) EngagementRepo {
	return &engagementRepo{db: db, log: baseLog.With("repo", "EngagementRepo")}
}

func tableFor(kind types.ContentKind) (string, error) {
	switch kind {
	case types.ContentKindNote:
		return types.Note{}.TableName(), nil
	case types.ContentKindQuestionPaper:
		return types.QuestionPaper{}.TableName(), nil
	}
	return "", fmt.Errorf("unknown content kind %q", kind)
}

// bump adds delta to column and returns the new value, or ErrContentNotFound.
func bump(tx *gorm.DB, table, column string, id uuid.UUID, delta int) (int, error) {
	res := tx.Table(table).
		Where("id = ?", id).
		Updates(map[string]any{
			column:       gorm.Expr(column+" + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrContentNotFound
	}
	var out int
	if err := tx.Table(table).Where("id = ?", id).Select(column).Scan(&out).Error; err != nil {
		return 0, err
	}
	return out, nil
}

func exists(tx *gorm.DB, table string, id uuid.UUID) (bool, error) {
	var n int64
	if err := tx.Table(table).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *engagementRepo) ToggleLike(dbc dbctx.Context, kind types.ContentKind, contentID, userID uuid.UUID) (bool, int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, 0, err
	}
	var (
		liked bool
		count int
	)
	err = repoutil.InTx(r.db, dbc, func(tx *gorm.DB) error {
		ok, err := exists(tx, table, contentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrContentNotFound
		}
		del := tx.Where("content_kind = ? AND content_id = ? AND user_id = ?", kind, contentID, userID).
			Delete(&types.ContentLike{})
		if del.Error != nil {
			return del.Error
		}
		delta := -1
		if del.RowsAffected == 0 {
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&types.ContentLike{
				ContentKind: kind,
				ContentID:   contentID,
				UserID:      userID,
				CreatedAt:   time.Now().UTC(),
			})
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected == 0 {
				// A concurrent toggle inserted the same row; leave counters alone.
				liked = true
				return tx.Table(table).Where("id = ?", contentID).Select("like_count").Scan(&count).Error
			}
			delta = 1
			liked = true
		}
		count, err = bump(tx, table, "like_count", contentID, delta)
		return err
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (r *engagementRepo) HasLiked(dbc dbctx.Context, kind types.ContentKind, contentIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	out := map[uuid.UUID]bool{}
	if len(contentIDs) == 0 || userID == uuid.Nil {
		return out, nil
	}
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ContentLike{}).
		Where("content_kind = ? AND user_id = ? AND content_id IN ?", kind, userID, contentIDs).
		Pluck("content_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *engagementRepo) Report(dbc dbctx.Context, kind types.ContentKind, contentID, userID uuid.UUID, reason string) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var count int
	err = repoutil.InTx(r.db, dbc, func(tx *gorm.DB) error {
		ok, err := exists(tx, table, contentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrContentNotFound
		}
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&types.ContentReport{
			ContentKind: kind,
			ContentID:   contentID,
			UserID:      userID,
			Reason:      reason,
			CreatedAt:   time.Now().UTC(),
		})
		if ins.Error != nil {
			if repoutil.IsUniqueViolation(ins.Error) {
				return ErrAlreadyReported
			}
			return ins.Error
		}
		if ins.RowsAffected == 0 {
			return ErrAlreadyReported
		}
		count, err = bump(tx, table, "report_count", contentID, 1)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *engagementRepo) IncrementDownload(dbc dbctx.Context, kind types.ContentKind, contentID uuid.UUID) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var count int
	err = repoutil.InTx(r.db, dbc, func(tx *gorm.DB) error {
		count, err = bump(tx, table, "download_count", contentID, 1)
		return err
	})
	return count, err
}
