package domain

import (
	"github.com/yungbote/campusshare-backend/internal/domain/content"
	"github.com/yungbote/campusshare-backend/internal/domain/user"
)

type User = user.User
type UserSummary = user.Summary
type Role = user.Role
type AuthMethod = user.AuthMethod
type Department = user.Department

const (
	RoleStudent   = user.RoleStudent
	RoleProfessor = user.RoleProfessor
	RoleAdmin     = user.RoleAdmin

	AuthMethodEmailOTP  = user.AuthMethodEmailOTP
	AuthMethodFederated = user.AuthMethodFederated
)

type ContentKind = content.Kind
type ContentFile = content.File
type ContentCounters = content.Counters
type Note = content.Note
type QuestionPaper = content.QuestionPaper
type ExamType = content.ExamType
type ContentLike = content.Like
type ContentReport = content.Report

const (
	ContentKindNote          = content.KindNote
	ContentKindQuestionPaper = content.KindQuestionPaper

	DefaultReportReason = content.DefaultReportReason
)

// Models lists every table migrated at boot, parents first.
func Models() []any {
	return []any{
		&user.User{},
		&content.Note{},
		&content.QuestionPaper{},
		&content.Like{},
		&content.Report{},
	}
}

func NormalizeEmail(raw string) string { return user.NormalizeEmail(raw) }

func ParseRole(raw string) (Role, bool) { return user.ParseRole(raw) }

func ParseDepartment(raw string) (Department, bool) { return user.ParseDepartment(raw) }

func ParseExamType(raw string) (ExamType, bool) { return content.ParseExamType(raw) }
