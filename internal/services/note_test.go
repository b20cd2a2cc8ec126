package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/campusshare-backend/internal/data/repos"
	"github.com/yungbote/campusshare-backend/internal/data/repos/testutil"
	types "github.com/yungbote/campusshare-backend/internal/domain"
)

type noteFixture struct {
	repos  repos.Repos
	bucket *fakeBucket
	svc    NoteService
}

func newNoteFixture(t *testing.T) *noteFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)
	bucket := newFakeBucket()
	return &noteFixture{
		repos:  r,
		bucket: bucket,
		svc:    NewNoteService(log, r.Notes, r.Users, r.Engagement, bucket),
	}
}

func validNote(file *UploadFile) NoteUpload {
	return NoteUpload{
		Title:      "Graph Theory Unit 2",
		Department: "CSE",
		Semester:   4,
		Subject:    "Discrete Maths",
		File:       file,
	}
}

func TestNoteUpload(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()
	uploader := seedIdentity(t, f.repos, types.RoleStudent)

	view, err := f.svc.Upload(ctx, uploader.ID, validNote(pdfUpload("unit 2 (final).pdf", 2048)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if view.ID == uuid.Nil || view.FileSize != 2048 || view.FileType != "application/pdf" || view.Version != 1 {
		t.Fatalf("unexpected note: %+v", view.Note)
	}
	if !strings.HasPrefix(view.FileKey, "notes/") || !strings.HasSuffix(view.FileKey, "-unit_2_final_.pdf") {
		t.Fatalf("unexpected key %q", view.FileKey)
	}
	if !strings.Contains(view.FileURL, view.FileKey) {
		t.Fatalf("url %q does not reference key %q", view.FileURL, view.FileKey)
	}
	if view.UploadedBy == nil || view.UploadedBy.ID != uploader.ID || view.UploadedBy.Email != uploader.Email {
		t.Fatalf("uploader summary: %+v", view.UploadedBy)
	}
	if f.bucket.count() != 1 {
		t.Fatalf("expected one stored object, got %d", f.bucket.count())
	}
}

func TestNoteUploadValidation(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()
	uploader := seedIdentity(t, f.repos, types.RoleStudent)

	_, err := f.svc.Upload(ctx, uploader.ID, validNote(nil))
	requireKind(t, err, ErrValidation)

	exe := &UploadFile{Filename: "run.exe", ContentType: "application/x-msdownload", Size: 10, Body: bytes.NewReader([]byte("MZ"))}
	_, err = f.svc.Upload(ctx, uploader.ID, validNote(exe))
	requireKind(t, err, ErrValidation)

	huge := &UploadFile{Filename: "big.pdf", ContentType: "application/pdf", Size: MaxUploadBytes + 1, Body: bytes.NewReader(nil)}
	_, err = f.svc.Upload(ctx, uploader.ID, validNote(huge))
	requireKind(t, err, ErrValidation)

	missing := validNote(pdfUpload("a.pdf", 10))
	missing.Subject = ""
	_, err = f.svc.Upload(ctx, uploader.ID, missing)
	requireKind(t, err, ErrValidation)

	badDept := validNote(pdfUpload("a.pdf", 10))
	badDept.Department = "HISTORY"
	_, err = f.svc.Upload(ctx, uploader.ID, badDept)
	requireKind(t, err, ErrValidation)

	if f.bucket.count() != 0 {
		t.Fatalf("rejected uploads must not store objects, got %d", f.bucket.count())
	}
}

func TestNoteUploadInfersTypeFromExtension(t *testing.T) {
	f := newNoteFixture(t)
	uploader := seedIdentity(t, f.repos, types.RoleStudent)
	file := &UploadFile{Filename: "slides.PPTX", ContentType: "application/octet-stream", Size: 4, Body: bytes.NewReader([]byte("pptx"))}

	view, err := f.svc.Upload(context.Background(), uploader.ID, validNote(file))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if view.FileType != "application/vnd.openxmlformats-officedocument.presentationml.presentation" {
		t.Fatalf("unexpected type %q", view.FileType)
	}
}

func TestNoteUploadStorageFailures(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()
	uploader := seedIdentity(t, f.repos, types.RoleStudent)

	f.bucket.uploadErr = errors.New("bucket offline")
	_, err := f.svc.Upload(ctx, uploader.ID, validNote(pdfUpload("a.pdf", 10)))
	if err == nil || errors.Is(err, ErrValidation) {
		t.Fatalf("expected internal error, got %v", err)
	}

	noBucket := NewNoteService(testutil.Logger(t), f.repos.Notes, f.repos.Users, f.repos.Engagement, nil)
	_, err = noBucket.Upload(ctx, uploader.ID, validNote(pdfUpload("a.pdf", 10)))
	requireKind(t, err, ErrUnavailable)
}

func TestNoteListFiltersAndPaginates(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()
	uploader := seedIdentity(t, f.repos, types.RoleStudent)

	for i, subject := range []string{"Operating Systems", "Computer Networks", "operating systems lab"} {
		in := validNote(pdfUpload("n.pdf", 8))
		in.Title = "note " + string(rune('a'+i))
		in.Subject = subject
		if _, err := f.svc.Upload(ctx, uploader.ID, in); err != nil {
			t.Fatalf("Upload %d: %v", i, err)
		}
	}
	other := validNote(pdfUpload("n.pdf", 8))
	other.Department = "ECE"
	if _, err := f.svc.Upload(ctx, uploader.ID, other); err != nil {
		t.Fatalf("Upload ECE: %v", err)
	}

	items, page, err := f.svc.List(ctx, uuid.Nil, ContentFilter{Department: "CSE", Subject: "OPERATING", SortBy: "title", Order: "asc"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || page.Total != 2 || page.Pages != 1 || page.Page != 1 || page.Limit != DefaultPageLimit {
		t.Fatalf("unexpected page: %d items %+v", len(items), page)
	}
	if items[0].Title != "note a" || items[1].Title != "note c" {
		t.Fatalf("unexpected order: %q, %q", items[0].Title, items[1].Title)
	}
	if items[0].UploadedBy == nil || items[0].UploadedBy.ID != uploader.ID {
		t.Fatalf("uploader not attached")
	}

	items, page, err = f.svc.List(ctx, uuid.Nil, ContentFilter{Limit: 3, Page: 2})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(items) != 1 || page.Total != 4 || page.Pages != 2 {
		t.Fatalf("unexpected page 2: %d items %+v", len(items), page)
	}

	_, _, err = f.svc.List(ctx, uuid.Nil, ContentFilter{SortBy: "password"})
	requireKind(t, err, ErrValidation)
	_, _, err = f.svc.List(ctx, uuid.Nil, ContentFilter{Semester: 11})
	requireKind(t, err, ErrValidation)
}

func TestNoteEngagement(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()
	uploader := seedIdentity(t, f.repos, types.RoleStudent)
	reader := seedIdentity(t, f.repos, types.RoleStudent)

	view, err := f.svc.Upload(ctx, uploader.ID, validNote(pdfUpload("a.pdf", 10)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	res, err := f.svc.ToggleLike(ctx, view.ID, reader.ID)
	if err != nil || !res.Liked || res.LikeCount != 1 {
		t.Fatalf("like: %+v %v", res, err)
	}
	got, err := f.svc.Get(ctx, reader.ID, view.ID)
	if err != nil || !got.IsLiked || got.LikeCount != 1 {
		t.Fatalf("Get after like: %+v %v", got, err)
	}
	res, err = f.svc.ToggleLike(ctx, view.ID, reader.ID)
	if err != nil || res.Liked || res.LikeCount != 0 {
		t.Fatalf("unlike: %+v %v", res, err)
	}

	if err := f.svc.Report(ctx, view.ID, reader.ID, ""); err != nil {
		t.Fatalf("Report: %v", err)
	}
	err = f.svc.Report(ctx, view.ID, reader.ID, "spam")
	requireKind(t, err, ErrConflict)

	for want := 1; want <= 2; want++ {
		n, err := f.svc.RecordDownload(ctx, view.ID)
		if err != nil || n != want {
			t.Fatalf("download %d: got %d err %v", want, n, err)
		}
	}

	missing := uuid.New()
	_, err = f.svc.ToggleLike(ctx, missing, reader.ID)
	requireKind(t, err, ErrNotFound)
	err = f.svc.Report(ctx, missing, reader.ID, "")
	requireKind(t, err, ErrNotFound)
	_, err = f.svc.RecordDownload(ctx, missing)
	requireKind(t, err, ErrNotFound)
	_, err = f.svc.Get(ctx, uuid.Nil, missing)
	requireKind(t, err, ErrNotFound)
}

func TestNoteVerify(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()
	uploader := seedIdentity(t, f.repos, types.RoleStudent)
	professor := seedIdentity(t, f.repos, types.RoleProfessor)

	view, err := f.svc.Upload(ctx, uploader.ID, validNote(pdfUpload("a.pdf", 10)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	_, err = f.svc.Verify(ctx, view.ID, uploader)
	requireKind(t, err, ErrForbidden)

	verified, err := f.svc.Verify(ctx, view.ID, professor)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !verified.IsVerified || verified.VerifiedBy == nil || verified.VerifiedBy.ID != professor.ID {
		t.Fatalf("unexpected verified note: %+v", verified)
	}

	_, err = f.svc.Verify(ctx, uuid.New(), professor)
	requireKind(t, err, ErrNotFound)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"notes.pdf":           "notes.pdf",
		"../../etc/passwd":    "passwd",
		`C:\docs\unit 1.docx`: "unit_1.docx",
		"   ":                 "file",
		"Ünïcode näme.pptx":   "n_code_n_me.pptx",
		"a  b   c.pdf":        "a_b_c.pdf",
		"_hidden_.pdf":        "hidden_.pdf",
		"DBMS-Unit_3(v2).ppt": "DBMS-Unit_3_v2_.ppt",
		"AI & DS":             "AI_DS",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q): got %q want %q", in, got, want)
		}
	}
}
