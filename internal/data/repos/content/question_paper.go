package content

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

type QuestionPaperRepo interface {
	Create(dbc dbctx.Context, paper *types.QuestionPaper) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuestionPaper, error)
	List(dbc dbctx.Context, q ListQuery) ([]*types.QuestionPaper, int64, error)
}

type questionPaperRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionPaperRepo(db *gorm.DB, baseLog *logger.Logger) QuestionPaperRepo {
	return &questionPaperRepo{db: db, log: baseLog.With("repo", "QuestionPaperRepo")}
}

func (r *questionPaperRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *questionPaperRepo) Create(dbc dbctx.Context, paper *types.QuestionPaper) error {
	return r.tx(dbc).Create(paper).Error
}

// GetByID returns nil, nil when the paper does not exist.
func (r *questionPaperRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuestionPaper, error) {
	var q types.QuestionPaper
	err := r.tx(dbc).Where("id = ?", id).Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionPaperRepo) List(dbc dbctx.Context, q ListQuery) ([]*types.QuestionPaper, int64, error) {
	return list(r.db, dbc, &types.QuestionPaper{}, q)
}
