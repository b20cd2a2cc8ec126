package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleProfessor Role = "PROFESSOR"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

// ParseRole accepts any casing.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(raw)))
	return r, r.Valid()
}

type AuthMethod string

const (
	AuthMethodEmailOTP  AuthMethod = "EMAIL_OTP"
	AuthMethodFederated AuthMethod = "FEDERATED"
)

// User is the identity record. VerificationCode and VerificationExpiry are
// set together while a passcode is outstanding and cleared together when it
// is consumed.
type User struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Email              string                      `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Name               string                      `gorm:"not null;default:'';column:name" json:"name"`
	Role               Role                        `gorm:"not null;default:'STUDENT';column:role;size:16" json:"role"`
	AuthMethod         AuthMethod                  `gorm:"not null;default:'EMAIL_OTP';column:auth_method;size:16" json:"authMethod"`
	VerificationCode   *string                     `gorm:"column:verification_code;size:16" json:"-"`
	VerificationExpiry *time.Time                  `gorm:"column:verification_expiry" json:"-"`
	IsVerified         bool                        `gorm:"not null;default:false;column:is_verified" json:"isVerified"`
	ProfileCompleted   bool                        `gorm:"not null;default:false;column:profile_completed" json:"profileCompleted"`
	FederatedID        *string                     `gorm:"column:federated_id;index" json:"-"`
	RollNumber         *string                     `gorm:"column:roll_number" json:"rollNumber,omitempty"`
	Department         *Department                 `gorm:"column:department;size:16" json:"department,omitempty"`
	Year               *int                        `gorm:"column:year" json:"year,omitempty"`
	Semester           *int                        `gorm:"column:semester" json:"semester,omitempty"`
	CollegeName        *string                     `gorm:"column:college_name" json:"collegeName,omitempty"`
	Subjects           datatypes.JSONSlice[string] `gorm:"column:subjects" json:"subjects,omitempty"`
	CreatedAt          time.Time                   `gorm:"not null;column:created_at" json:"createdAt"`
	UpdatedAt          time.Time                   `gorm:"not null;column:updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasOutstandingCode reports whether a passcode is waiting to be verified.
func (u *User) HasOutstandingCode() bool {
	return u != nil && u.VerificationCode != nil && u.VerificationExpiry != nil
}

// Summary is the public view of an uploader attached to content.
type Summary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// NormalizeEmail is applied to every email before it is read or written.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
