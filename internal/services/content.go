package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/campusshare-backend/internal/data/repos"
	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/platform/apierr"
	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
	"github.com/yungbote/campusshare-backend/internal/platform/gcp"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

const (
	MaxUploadBytes   int64 = 100 << 20
	DefaultPageLimit       = 20
	MaxPageLimit           = 100
)

// allowedFileTypes maps accepted MIME types to their usual extension.
var allowedFileTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   ".docx",
	"application/vnd.ms-powerpoint":                                             ".ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
}

// UploadFile is an incoming file. Size is what the client declared.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ContentFilter is the raw list request. Zero values mean "any" or default.
type ContentFilter struct {
	Department string
	Semester   int
	Subject    string
	Year       int
	ExamType   string
	Page       int
	Limit      int
	SortBy     string
	Order      string
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type LikeResult struct {
	Liked     bool
	LikeCount int
}

var sortAliases = map[string]string{
	"createdat":      "created_at",
	"created_at":     "created_at",
	"likecount":      "like_count",
	"like_count":     "like_count",
	"downloadcount":  "download_count",
	"download_count": "download_count",
	"title":          "title",
}

func (f ContentFilter) query() (repos.ListQuery, Pagination, error) {
	q := repos.ListQuery{
		Subject: strings.TrimSpace(f.Subject),
		SortBy:  "created_at",
		Desc:    !strings.EqualFold(strings.TrimSpace(f.Order), "asc"),
	}
	if strings.TrimSpace(f.Department) != "" {
		dept, err := parseDepartment(f.Department)
		if err != nil {
			return q, Pagination{}, err
		}
		q.Department = string(dept)
	}
	if f.Semester != 0 {
		if err := checkSemester(f.Semester); err != nil {
			return q, Pagination{}, err
		}
		q.Semester = f.Semester
	}
	if f.Year < 0 {
		return q, Pagination{}, validationf("Invalid year")
	}
	q.Year = f.Year
	if strings.TrimSpace(f.ExamType) != "" {
		et, ok := types.ParseExamType(f.ExamType)
		if !ok {
			return q, Pagination{}, validationf("Invalid exam type")
		}
		q.ExamType = string(et)
	}
	if key := strings.TrimSpace(f.SortBy); key != "" {
		col, ok := sortAliases[strings.ToLower(key)]
		if !ok {
			return q, Pagination{}, validationf("Invalid sortBy")
		}
		q.SortBy = col
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	q.Offset = (page - 1) * limit
	q.Limit = limit
	return q, Pagination{Page: page, Limit: limit}, nil
}

func (p Pagination) withTotal(total int64) Pagination {
	p.Total = total
	if p.Limit > 0 {
		p.Pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return p
}

// resolveFileType validates an upload and returns its MIME type. An empty or
// generic declared type falls back to the filename extension.
func resolveFileType(f *UploadFile) (string, error) {
	if f == nil || f.Body == nil {
		return "", validationf("File is required")
	}
	if f.Size > MaxUploadBytes {
		return "", validationf("File exceeds the %d MB limit", MaxUploadBytes>>20)
	}
	ct := strings.TrimSpace(f.ContentType)
	if parsed, _, err := mime.ParseMediaType(ct); err == nil {
		ct = parsed
	}
	ct = strings.ToLower(ct)
	if _, ok := allowedFileTypes[ct]; !ok {
		ext := strings.ToLower(filepath.Ext(f.Filename))
		ct = ""
		for mt, e := range allowedFileTypes {
			if e == ext {
				ct = mt
				break
			}
		}
	}
	if ct == "" {
		return "", validationf("Invalid file type. Only PDF, DOC, DOCX, PPT and PPTX files are allowed")
	}
	return ct, nil
}

// sanitizeFilename keeps letters, digits, dot, dash and underscore.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_'
		if !ok {
			r = '_'
		}
		if r == '_' {
			if lastUnderscore {
				continue
			}
			lastUnderscore = true
		} else {
			lastUnderscore = false
		}
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), "._")
	if len(out) > 100 {
		out = out[len(out)-100:]
	}
	if out == "" {
		out = "file"
	}
	return out
}

func objectKey(prefix, filename string) string {
	return prefix + "/" + uuid.NewString() + "-" + sanitizeFilename(filename)
}

// fileStore puts content files into one bucket category.
type fileStore struct {
	log      *logger.Logger
	bucket   gcp.BucketService
	category gcp.BucketCategory
	prefix   string
}

func (fs fileStore) put(ctx context.Context, f *UploadFile, contentType string) (types.ContentFile, error) {
	if fs.bucket == nil {
		return types.ContentFile{}, apierr.Wrap(ErrUnavailable, "File upload service is not configured. Please contact administrator.", nil)
	}
	key := objectKey(fs.prefix, f.Filename)
	counted := &countingReader{r: io.LimitReader(f.Body, MaxUploadBytes+1)}
	if err := fs.bucket.UploadFile(dbctx.Context{Ctx: ctx}, fs.category, key, contentType, counted); err != nil {
		return types.ContentFile{}, fmt.Errorf("upload file: %w", err)
	}
	if counted.n > MaxUploadBytes {
		fs.discard(ctx, key)
		return types.ContentFile{}, validationf("File exceeds the %d MB limit", MaxUploadBytes>>20)
	}
	return types.ContentFile{
		FileURL:  fs.bucket.GetPublicURL(fs.category, key),
		FileKey:  key,
		FileType: contentType,
		FileSize: counted.n,
	}, nil
}

// discard removes an object whose record could not be written.
func (fs fileStore) discard(ctx context.Context, key string) {
	if err := fs.bucket.DeleteFile(dbctx.Context{Ctx: context.WithoutCancel(ctx)}, fs.category, key); err != nil && !errors.Is(err, gcp.ErrObjectNotFound) {
		fs.log.Error("Failed to remove orphaned object", "key", key, "error", err)
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// engagement maps repo errors for one content kind onto service errors.
type engagement struct {
	repo  repos.EngagementRepo
	kind  types.ContentKind
	label string
}

func (e engagement) notFound() error {
	return notFound(upperFirst(e.label) + " not found")
}

func (e engagement) mapErr(err error) error {
	switch {
	case errors.Is(err, repos.ErrContentNotFound):
		return e.notFound()
	case errors.Is(err, repos.ErrAlreadyReported):
		return apierr.Wrap(ErrConflict, "You have already reported this "+e.label, nil)
	}
	return err
}

func (e engagement) toggleLike(ctx context.Context, id, userID uuid.UUID) (*LikeResult, error) {
	liked, count, err := e.repo.ToggleLike(dbctx.Context{Ctx: ctx}, e.kind, id, userID)
	if err != nil {
		return nil, e.mapErr(err)
	}
	return &LikeResult{Liked: liked, LikeCount: count}, nil
}

func (e engagement) report(ctx context.Context, id, userID uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = types.DefaultReportReason
	}
	if _, err := e.repo.Report(dbctx.Context{Ctx: ctx}, e.kind, id, userID, reason); err != nil {
		return e.mapErr(err)
	}
	return nil
}

func (e engagement) download(ctx context.Context, id uuid.UUID) (int, error) {
	count, err := e.repo.IncrementDownload(dbctx.Context{Ctx: ctx}, e.kind, id)
	if err != nil {
		return 0, e.mapErr(err)
	}
	return count, nil
}

func (e engagement) likedBy(dbc dbctx.Context, ids []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]bool, error) {
	if viewerID == uuid.Nil {
		return map[uuid.UUID]bool{}, nil
	}
	return e.repo.HasLiked(dbc, e.kind, ids, viewerID)
}

func summaries(dbc dbctx.Context, users repos.UserRepo, ids []uuid.UUID) (map[uuid.UUID]*types.UserSummary, error) {
	out := map[uuid.UUID]*types.UserSummary{}
	seen := map[uuid.UUID]bool{}
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	found, err := users.GetByIDs(dbc, unique)
	if err != nil {
		return nil, err
	}
	for _, u := range found {
		s := u.Summary()
		out[u.ID] = &s
	}
	return out, nil
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
