package content

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

type NoteRepo interface {
	Create(dbc dbctx.Context, note *types.Note) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Note, error)
	List(dbc dbctx.Context, q ListQuery) ([]*types.Note, int64, error)
	MarkVerified(dbc dbctx.Context, id, verifierID uuid.UUID) (bool, error)
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return &noteRepo{db: db, log: baseLog.With("repo", "NoteRepo")}
}

func (r *noteRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *noteRepo) Create(dbc dbctx.Context, note *types.Note) error {
	return r.tx(dbc).Create(note).Error
}

// GetByID returns nil, nil when the note does not exist.
func (r *noteRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Note, error) {
	var n types.Note
	err := r.tx(dbc).Where("id = ?", id).Take(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noteRepo) List(dbc dbctx.Context, q ListQuery) ([]*types.Note, int64, error) {
	// Notes have no year or exam type.
	q.Year, q.ExamType = 0, ""
	return list(r.db, dbc, &types.Note{}, q)
}

func (r *noteRepo) MarkVerified(dbc dbctx.Context, id, verifierID uuid.UUID) (bool, error) {
	res := r.tx(dbc).
		Model(&types.Note{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_verified": true,
			"verified_by": verifierID,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
