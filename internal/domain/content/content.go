package content

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campusshare-backend/internal/domain/user"
)

// Kind discriminates notes from question papers in the engagement tables.
type Kind string

const (
	KindNote          Kind = "note"
	KindQuestionPaper Kind = "question_paper"
)

// File describes the stored object backing a content record.
type File struct {
	FileURL  string `gorm:"not null;column:file_url" json:"fileUrl"`
	FileKey  string `gorm:"not null;column:file_key" json:"-"`
	FileType string `gorm:"not null;column:file_type" json:"fileType"`
	FileSize int64  `gorm:"not null;column:file_size" json:"fileSize"`
}

// Counters are kept in step with the like/report join tables.
type Counters struct {
	LikeCount     int `gorm:"not null;default:0;column:like_count;index" json:"likeCount"`
	ReportCount   int `gorm:"not null;default:0;column:report_count" json:"reportCount"`
	DownloadCount int `gorm:"not null;default:0;column:download_count;index" json:"downloadCount"`
}

type Note struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string          `gorm:"not null;column:title" json:"title"`
	Description string          `gorm:"not null;default:'';column:description" json:"description"`
	UploadedBy  uuid.UUID       `gorm:"type:uuid;not null;index;column:uploaded_by" json:"uploadedBy"`
	Department  user.Department `gorm:"not null;size:16;index;column:department" json:"department"`
	Semester    int             `gorm:"not null;index;column:semester" json:"semester"`
	Subject     string          `gorm:"not null;column:subject" json:"subject"`
	File        `gorm:"embedded"`
	Counters    `gorm:"embedded"`
	IsVerified  bool       `gorm:"not null;default:false;column:is_verified" json:"isVerified"`
	VerifiedBy  *uuid.UUID `gorm:"type:uuid;column:verified_by" json:"verifiedBy,omitempty"`
	Version     int        `gorm:"not null;default:1;column:version" json:"version"`
	CreatedAt   time.Time  `gorm:"not null;index;column:created_at" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null;column:updated_at" json:"updatedAt"`
}

func (Note) TableName() string { return "note" }

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Version == 0 {
		n.Version = 1
	}
	return nil
}

type ExamType string

const (
	ExamTypeMidterm    ExamType = "Midterm"
	ExamTypeEndterm    ExamType = "Endterm"
	ExamTypeQuiz       ExamType = "Quiz"
	ExamTypeAssignment ExamType = "Assignment"
	ExamTypeOther      ExamType = "Other"
)

var ExamTypes = []ExamType{ExamTypeMidterm, ExamTypeEndterm, ExamTypeQuiz, ExamTypeAssignment, ExamTypeOther}

// ParseExamType defaults a blank value to Endterm.
func ParseExamType(raw string) (ExamType, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ExamTypeEndterm, true
	}
	for _, t := range ExamTypes {
		if strings.EqualFold(string(t), raw) {
			return t, true
		}
	}
	return "", false
}

type QuestionPaper struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string          `gorm:"not null;column:title" json:"title"`
	Description string          `gorm:"not null;default:'';column:description" json:"description"`
	UploadedBy  uuid.UUID       `gorm:"type:uuid;not null;index;column:uploaded_by" json:"uploadedBy"`
	Department  user.Department `gorm:"not null;size:16;index;column:department" json:"department"`
	Semester    int             `gorm:"not null;index;column:semester" json:"semester"`
	Subject     string          `gorm:"not null;column:subject" json:"subject"`
	Year        int             `gorm:"not null;index;column:year" json:"year"`
	ExamType    ExamType        `gorm:"not null;size:16;default:'Endterm';column:exam_type" json:"examType"`
	File        `gorm:"embedded"`
	Counters    `gorm:"embedded"`
	CreatedAt   time.Time `gorm:"not null;index;column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;column:updated_at" json:"updatedAt"`
}

func (QuestionPaper) TableName() string { return "question_paper" }

func (q *QuestionPaper) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.ExamType == "" {
		q.ExamType = ExamTypeEndterm
	}
	return nil
}
