package gcp

import (
	"testing"

	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

func testBucketService(cfg Config) *bucketService {
	return newBucketService(logger.NewNop(), nil, cfg.Normalize())
}

func TestGetPublicURLGCSDefault(t *testing.T) {
	bs := testBucketService(Config{NotesBucket: "notes-bucket", PapersBucket: "papers-bucket"})

	got := bs.GetPublicURL(BucketCategoryNote, "/notes/abc-unit1.pdf")
	want := "https://storage.googleapis.com/notes-bucket/notes/abc-unit1.pdf"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
	got = bs.GetPublicURL(BucketCategoryQuestionPaper, "question-papers/x.pdf")
	want = "https://storage.googleapis.com/papers-bucket/question-papers/x.pdf"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLCDN(t *testing.T) {
	bs := testBucketService(Config{NotesBucket: "n", PapersBucket: "p", CDNDomain: "cdn.campus.test/"})
	got := bs.GetPublicURL(BucketCategoryNote, "notes/a.pdf")
	if want := "https://cdn.campus.test/notes/a.pdf"; got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLEmulator(t *testing.T) {
	bs := testBucketService(Config{
		NotesBucket:   "notes",
		PapersBucket:  "papers",
		EmulatorHost:  "http://fake-gcs:4443",
		PublicBaseURL: "http://localhost:4443",
	})
	got := bs.GetPublicURL(BucketCategoryNote, "notes/a b.pdf")
	want := "http://localhost:4443/storage/v1/b/notes/o/notes%2Fa%20b.pdf?alt=media"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLUnknownCategory(t *testing.T) {
	bs := testBucketService(Config{NotesBucket: "n", PapersBucket: "p"})
	if got := bs.GetPublicURL("avatar", "k"); got != "k" {
		t.Fatalf("unknown category: got=%q", got)
	}
}
