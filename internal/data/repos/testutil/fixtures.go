package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/domain/user"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, role types.Role) *types.User {
	tb.Helper()
	now := time.Now().UTC()
	u := &types.User{
		ID:         uuid.New(),
		Email:      types.NormalizeEmail(email),
		Name:       "Seed User",
		Role:       role,
		AuthMethod: types.AuthMethodEmailOTP,
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedNote(tb testing.TB, ctx context.Context, tx *gorm.DB, uploader uuid.UUID, title, subject string, dept types.Department, semester int) *types.Note {
	tb.Helper()
	n := &types.Note{
		ID:         uuid.New(),
		Title:      title,
		UploadedBy: uploader,
		Department: dept,
		Semester:   semester,
		Subject:    subject,
		File: types.ContentFile{
			FileURL:  "https://storage.googleapis.com/notes/" + title + ".pdf",
			FileKey:  "notes/" + title + ".pdf",
			FileType: "application/pdf",
			FileSize: 1024,
		},
		Version: 1,
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed note: %v", err)
	}
	return n
}

func SeedQuestionPaper(tb testing.TB, ctx context.Context, tx *gorm.DB, uploader uuid.UUID, title, subject string, year int, examType types.ExamType) *types.QuestionPaper {
	tb.Helper()
	q := &types.QuestionPaper{
		ID:         uuid.New(),
		Title:      title,
		UploadedBy: uploader,
		Department: user.DepartmentCSE,
		Semester:   3,
		Subject:    subject,
		Year:       year,
		ExamType:   examType,
		File: types.ContentFile{
			FileURL:  "https://storage.googleapis.com/papers/" + title + ".pdf",
			FileKey:  "question-papers/" + title + ".pdf",
			FileType: "application/pdf",
			FileSize: 2048,
		},
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question paper: %v", err)
	}
	return q
}

func PtrString(v string) *string { return &v }

func PtrInt(v int) *int { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
