package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/campusshare-backend/internal/data/repos"
	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
	"github.com/yungbote/campusshare-backend/internal/platform/gcp"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

type NoteUpload struct {
	Title       string
	Description string
	Department  string
	Semester    int
	Subject     string
	File        *UploadFile
}

// NoteView is a note with its uploader and verifier resolved.
type NoteView struct {
	*types.Note
	UploadedBy *types.UserSummary `json:"uploadedBy"`
	VerifiedBy *types.UserSummary `json:"verifiedBy,omitempty"`
	IsLiked    bool               `json:"isLiked"`
}

type NoteService interface {
	Upload(ctx context.Context, uploaderID uuid.UUID, in NoteUpload) (*NoteView, error)
	List(ctx context.Context, viewerID uuid.UUID, filter ContentFilter) ([]*NoteView, Pagination, error)
	Get(ctx context.Context, viewerID, noteID uuid.UUID) (*NoteView, error)
	ToggleLike(ctx context.Context, noteID, userID uuid.UUID) (*LikeResult, error)
	Report(ctx context.Context, noteID, userID uuid.UUID, reason string) error
	RecordDownload(ctx context.Context, noteID uuid.UUID) (int, error)
	Verify(ctx context.Context, noteID uuid.UUID, verifier *types.User) (*NoteView, error)
}

type noteService struct {
	log        *logger.Logger
	notes      repos.NoteRepo
	users      repos.UserRepo
	engagement engagement
	files      fileStore
}

// NewNoteService accepts a nil bucket; uploads then fail as unavailable.
func NewNoteService(
	log *logger.Logger,
	notes repos.NoteRepo,
	users repos.UserRepo,
	engagementRepo repos.EngagementRepo,
	bucket gcp.BucketService,
) NoteService {
	serviceLog := log.With("service", "NoteService")
	return &noteService{
		log:        serviceLog,
		notes:      notes,
		users:      users,
		engagement: engagement{repo: engagementRepo, kind: types.ContentKindNote, label: "note"},
		files:      fileStore{log: serviceLog, bucket: bucket, category: gcp.BucketCategoryNote, prefix: "notes"},
	}
}

func (ns *noteService) Upload(ctx context.Context, uploaderID uuid.UUID, in NoteUpload) (*NoteView, error) {
	contentType, err := resolveFileType(in.File)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	subject := strings.TrimSpace(in.Subject)
	if title == "" || strings.TrimSpace(in.Department) == "" || in.Semester == 0 || subject == "" {
		return nil, validationf("Title, department, semester, and subject are required")
	}
	dept, err := parseDepartment(in.Department)
	if err != nil {
		return nil, err
	}
	if err := checkSemester(in.Semester); err != nil {
		return nil, err
	}

	file, err := ns.files.put(ctx, in.File, contentType)
	if err != nil {
		return nil, err
	}
	note := &types.Note{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		UploadedBy:  uploaderID,
		Department:  dept,
		Semester:    in.Semester,
		Subject:     subject,
		File:        file,
		Version:     1,
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := ns.notes.Create(dbc, note); err != nil {
		ns.files.discard(ctx, file.FileKey)
		return nil, fmt.Errorf("create note: %w", err)
	}
	ns.log.Info("Note uploaded", "note_id", note.ID, "uploaded_by", uploaderID, "size", file.FileSize)
	views, err := ns.views(dbc, []*types.Note{note}, uuid.Nil)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (ns *noteService) List(ctx context.Context, viewerID uuid.UUID, filter ContentFilter) ([]*NoteView, Pagination, error) {
	filter.Year, filter.ExamType = 0, ""
	q, page, err := filter.query()
	if err != nil {
		return nil, Pagination{}, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	notes, total, err := ns.notes.List(dbc, q)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list notes: %w", err)
	}
	views, err := ns.views(dbc, notes, viewerID)
	if err != nil {
		return nil, Pagination{}, err
	}
	return views, page.withTotal(total), nil
}

func (ns *noteService) Get(ctx context.Context, viewerID, noteID uuid.UUID) (*NoteView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	note, err := ns.notes.GetByID(dbc, noteID)
	if err != nil {
		return nil, fmt.Errorf("load note: %w", err)
	}
	if note == nil {
		return nil, ns.engagement.notFound()
	}
	views, err := ns.views(dbc, []*types.Note{note}, viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (ns *noteService) ToggleLike(ctx context.Context, noteID, userID uuid.UUID) (*LikeResult, error) {
	return ns.engagement.toggleLike(ctx, noteID, userID)
}

func (ns *noteService) Report(ctx context.Context, noteID, userID uuid.UUID, reason string) error {
	return ns.engagement.report(ctx, noteID, userID, reason)
}

func (ns *noteService) RecordDownload(ctx context.Context, noteID uuid.UUID) (int, error) {
	return ns.engagement.download(ctx, noteID)
}

func (ns *noteService) Verify(ctx context.Context, noteID uuid.UUID, verifier *types.User) (*NoteView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	note, err := ns.notes.GetByID(dbc, noteID)
	if err != nil {
		return nil, fmt.Errorf("load note: %w", err)
	}
	if note == nil {
		return nil, ns.engagement.notFound()
	}
	if verifier == nil || (verifier.Role != types.RoleProfessor && verifier.Role != types.RoleAdmin) {
		return nil, forbidden("Only professors and admins can verify notes")
	}
	if _, err := ns.notes.MarkVerified(dbc, noteID, verifier.ID); err != nil {
		return nil, fmt.Errorf("verify note: %w", err)
	}
	ns.log.Info("Note verified", "note_id", noteID, "user_id", verifier.ID)
	return ns.Get(ctx, verifier.ID, noteID)
}

func (ns *noteService) views(dbc dbctx.Context, notes []*types.Note, viewerID uuid.UUID) ([]*NoteView, error) {
	people := make([]uuid.UUID, 0, len(notes)*2)
	ids := make([]uuid.UUID, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
		people = append(people, n.UploadedBy)
		if n.VerifiedBy != nil {
			people = append(people, *n.VerifiedBy)
		}
	}
	byID, err := summaries(dbc, ns.users, people)
	if err != nil {
		return nil, fmt.Errorf("load uploaders: %w", err)
	}
	liked, err := ns.engagement.likedBy(dbc, ids, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	out := make([]*NoteView, 0, len(notes))
	for _, n := range notes {
		v := &NoteView{Note: n, UploadedBy: byID[n.UploadedBy], IsLiked: liked[n.ID]}
		if n.VerifiedBy != nil {
			v.VerifiedBy = byID[*n.VerifiedBy]
		}
		out = append(out, v)
	}
	return out, nil
}
