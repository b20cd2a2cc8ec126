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

type QuestionPaperUpload struct {
	Title       string
	Description string
	Department  string
	Semester    int
	Subject     string
	Year        int
	ExamType    string
	File        *UploadFile
}

type QuestionPaperView struct {
	*types.QuestionPaper
	UploadedBy *types.UserSummary `json:"uploadedBy"`
	IsLiked    bool               `json:"isLiked"`
}

type QuestionPaperService interface {
	Upload(ctx context.Context, uploaderID uuid.UUID, in QuestionPaperUpload) (*QuestionPaperView, error)
	List(ctx context.Context, viewerID uuid.UUID, filter ContentFilter) ([]*QuestionPaperView, Pagination, error)
	Get(ctx context.Context, viewerID, paperID uuid.UUID) (*QuestionPaperView, error)
	ToggleLike(ctx context.Context, paperID, userID uuid.UUID) (*LikeResult, error)
	Report(ctx context.Context, paperID, userID uuid.UUID, reason string) error
	RecordDownload(ctx context.Context, paperID uuid.UUID) (int, error)
}

type questionPaperService struct {
	log        *logger.Logger
	papers     repos.QuestionPaperRepo
	users      repos.UserRepo
	engagement engagement
	files      fileStore
}

func NewQuestionPaperService(
	log *logger.Logger,
	papers repos.QuestionPaperRepo,
	users repos.UserRepo,
	engagementRepo repos.EngagementRepo,
	bucket gcp.BucketService,
) QuestionPaperService {
	serviceLog := log.With("service", "QuestionPaperService")
	return &questionPaperService{
		log:        serviceLog,
		papers:     papers,
		users:      users,
		engagement: engagement{repo: engagementRepo, kind: types.ContentKindQuestionPaper, label: "question paper"},
		files:      fileStore{log: serviceLog, bucket: bucket, category: gcp.BucketCategoryQuestionPaper, prefix: "question-papers"},
	}
}

func (qs *questionPaperService) Upload(ctx context.Context, uploaderID uuid.UUID, in QuestionPaperUpload) (*QuestionPaperView, error) {
	contentType, err := resolveFileType(in.File)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	subject := strings.TrimSpace(in.Subject)
	if title == "" || strings.TrimSpace(in.Department) == "" || in.Semester == 0 || subject == "" || in.Year == 0 {
		return nil, validationf("Title, department, semester, subject, and year are required")
	}
	dept, err := parseDepartment(in.Department)
	if err != nil {
		return nil, err
	}
	if err := checkSemester(in.Semester); err != nil {
		return nil, err
	}
	if in.Year < 0 {
		return nil, validationf("Invalid year")
	}
	examType, ok := types.ParseExamType(in.ExamType)
	if !ok {
		return nil, validationf("Invalid exam type")
	}

	file, err := qs.files.put(ctx, in.File, contentType)
	if err != nil {
		return nil, err
	}
	paper := &types.QuestionPaper{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		UploadedBy:  uploaderID,
		Department:  dept,
		Semester:    in.Semester,
		Subject:     subject,
		Year:        in.Year,
		ExamType:    examType,
		File:        file,
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := qs.papers.Create(dbc, paper); err != nil {
		qs.files.discard(ctx, file.FileKey)
		return nil, fmt.Errorf("create question paper: %w", err)
	}
	qs.log.Info("Question paper uploaded", "paper_id", paper.ID, "uploaded_by", uploaderID, "size", file.FileSize)
	views, err := qs.views(dbc, []*types.QuestionPaper{paper}, uuid.Nil)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (qs *questionPaperService) List(ctx context.Context, viewerID uuid.UUID, filter ContentFilter) ([]*QuestionPaperView, Pagination, error) {
	q, page, err := filter.query()
	if err != nil {
		return nil, Pagination{}, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	papers, total, err := qs.papers.List(dbc, q)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list question papers: %w", err)
	}
	views, err := qs.views(dbc, papers, viewerID)
	if err != nil {
		return nil, Pagination{}, err
	}
	return views, page.withTotal(total), nil
}

func (qs *questionPaperService) Get(ctx context.Context, viewerID, paperID uuid.UUID) (*QuestionPaperView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	paper, err := qs.papers.GetByID(dbc, paperID)
	if err != nil {
		return nil, fmt.Errorf("load question paper: %w", err)
	}
	if paper == nil {
		return nil, qs.engagement.notFound()
	}
	views, err := qs.views(dbc, []*types.QuestionPaper{paper}, viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (qs *questionPaperService) ToggleLike(ctx context.Context, paperID, userID uuid.UUID) (*LikeResult, error) {
	return qs.engagement.toggleLike(ctx, paperID, userID)
}

func (qs *questionPaperService) Report(ctx context.Context, paperID, userID uuid.UUID, reason string) error {
	return qs.engagement.report(ctx, paperID, userID, reason)
}

func (qs *questionPaperService) RecordDownload(ctx context.Context, paperID uuid.UUID) (int, error) {
	return qs.engagement.download(ctx, paperID)
}

func (qs *questionPaperService) views(dbc dbctx.Context, papers []*types.QuestionPaper, viewerID uuid.UUID) ([]*QuestionPaperView, error) {
	people := make([]uuid.UUID, 0, len(papers))
	ids := make([]uuid.UUID, 0, len(papers))
	for _, p := range papers {
		ids = append(ids, p.ID)
		people = append(people, p.UploadedBy)
	}
	byID, err := summaries(dbc, qs.users, people)
	if err != nil {
		return nil, fmt.Errorf("load uploaders: %w", err)
	}
	liked, err := qs.engagement.likedBy(dbc, ids, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	out := make([]*QuestionPaperView, 0, len(papers))
	for _, p := range papers {
		out = append(out, &QuestionPaperView{QuestionPaper: p, UploadedBy: byID[p.UploadedBy], IsLiked: liked[p.ID]})
	}
	return out, nil
}
