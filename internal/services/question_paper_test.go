package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/campusshare-backend/internal/data/repos"
	"github.com/yungbote/campusshare-backend/internal/data/repos/testutil"
	types "github.com/yungbote/campusshare-backend/internal/domain"
)

func newQuestionPaperFixture(t *testing.T) (QuestionPaperService, repos.Repos, *fakeBucket) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)
	bucket := newFakeBucket()
	return NewQuestionPaperService(log, r.QuestionPapers, r.Users, r.Engagement, bucket), r, bucket
}

func validPaper(year int, examType string) QuestionPaperUpload {
	return QuestionPaperUpload{
		Title:      "DBMS end semester",
		Department: "CSE",
		Semester:   5,
		Subject:    "DBMS",
		Year:       year,
		ExamType:   examType,
		File:       pdfUpload("dbms.pdf", 64),
	}
}

func TestQuestionPaperUpload(t *testing.T) {
	svc, r, bucket := newQuestionPaperFixture(t)
	ctx := context.Background()
	uploader := seedIdentity(t, r, types.RoleProfessor)

	view, err := svc.Upload(ctx, uploader.ID, validPaper(2024, ""))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if view.ExamType != "Endterm" || view.Year != 2024 {
		t.Fatalf("unexpected paper: %+v", view.QuestionPaper)
	}
	if !strings.HasPrefix(view.FileKey, "question-papers/") || bucket.count() != 1 {
		t.Fatalf("unexpected storage state: key %q objects %d", view.FileKey, bucket.count())
	}

	quiz, err := svc.Upload(ctx, uploader.ID, validPaper(2023, "quiz"))
	if err != nil || quiz.ExamType != "Quiz" {
		t.Fatalf("Upload quiz: %+v %v", quiz, err)
	}

	_, err = svc.Upload(ctx, uploader.ID, validPaper(0, ""))
	requireKind(t, err, ErrValidation)
	_, err = svc.Upload(ctx, uploader.ID, validPaper(2024, "Viva"))
	requireKind(t, err, ErrValidation)
}

func TestQuestionPaperListAndEngagement(t *testing.T) {
	svc, r, _ := newQuestionPaperFixture(t)
	ctx := context.Background()
	uploader := seedIdentity(t, r, types.RoleProfessor)
	reader := seedIdentity(t, r, types.RoleStudent)

	first, err := svc.Upload(ctx, uploader.ID, validPaper(2022, "Midterm"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := svc.Upload(ctx, uploader.ID, validPaper(2023, "Midterm")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := svc.Upload(ctx, uploader.ID, validPaper(2022, "Endterm")); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	items, page, err := svc.List(ctx, reader.ID, ContentFilter{Year: 2022, ExamType: "midterm"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || page.Total != 1 || items[0].ID != first.ID {
		t.Fatalf("unexpected list: %d items %+v", len(items), page)
	}
	_, _, err = svc.List(ctx, reader.ID, ContentFilter{ExamType: "Viva"})
	requireKind(t, err, ErrValidation)

	res, err := svc.ToggleLike(ctx, first.ID, reader.ID)
	if err != nil || !res.Liked || res.LikeCount != 1 {
		t.Fatalf("like: %+v %v", res, err)
	}
	got, err := svc.Get(ctx, reader.ID, first.ID)
	if err != nil || !got.IsLiked || got.UploadedBy == nil || got.UploadedBy.ID != uploader.ID {
		t.Fatalf("Get: %+v %v", got, err)
	}
	if err := svc.Report(ctx, first.ID, reader.ID, "blurry scan"); err != nil {
		t.Fatalf("Report: %v", err)
	}
	err = svc.Report(ctx, first.ID, reader.ID, "")
	requireKind(t, err, ErrConflict)
	if n, err := svc.RecordDownload(ctx, first.ID); err != nil || n != 1 {
		t.Fatalf("RecordDownload: %d %v", n, err)
	}
	_, err = svc.Get(ctx, reader.ID, uuid.New())
	requireKind(t, err, ErrNotFound)
}
