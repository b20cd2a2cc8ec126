package repos

import (
	"github.com/yungbote/campusshare-backend/internal/data/repos/content"
	"github.com/yungbote/campusshare-backend/internal/data/repos/repoutil"
	"github.com/yungbote/campusshare-backend/internal/data/repos/user"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type NoteRepo = content.NoteRepo
type QuestionPaperRepo = content.QuestionPaperRepo
type EngagementRepo = content.EngagementRepo
type ListQuery = content.ListQuery
type TxRunner = repoutil.TxRunner

var (
	ErrContentNotFound = content.ErrContentNotFound
	ErrAlreadyReported = content.ErrAlreadyReported
	ErrProtectedColumn = user.ErrProtectedColumn
)

// Repos bundles every repository built over one *gorm.DB.
type Repos struct {
	Users          UserRepo
	Notes          NoteRepo
	QuestionPapers QuestionPaperRepo
	Engagement     EngagementRepo
	Tx             TxRunner
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Users:          user.NewUserRepo(db, log),
		Notes:          content.NewNoteRepo(db, log),
		QuestionPapers: content.NewQuestionPaperRepo(db, log),
		Engagement:     content.NewEngagementRepo(db, log),
		Tx:             repoutil.NewTxRunner(db),
	}
}
