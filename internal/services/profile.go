package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/campusshare-backend/internal/data/repos"
	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/domain/user"
	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

type StudentProfileInput struct {
	Name       string
	RollNumber string
	Department string
	Year       int
	Semester   int
}

type ProfessorProfileInput struct {
	Name        string
	CollegeName string
	Subjects    []string
}

// ProfilePatch lists every self-service editable field. Nil means unchanged.
// Email, role, verification state and federated id have no field here.
type ProfilePatch struct {
	Name        *string
	RollNumber  *string
	Department  *string
	Year        *int
	Semester    *int
	CollegeName *string
	Subjects    *[]string
}

func (p ProfilePatch) empty() bool {
	return p.Name == nil && p.RollNumber == nil && p.Department == nil && p.Year == nil &&
		p.Semester == nil && p.CollegeName == nil && p.Subjects == nil
}

type ProfileService interface {
	CompleteStudentProfile(ctx context.Context, userID uuid.UUID, in StudentProfileInput) (*types.User, error)
	CompleteProfessorProfile(ctx context.Context, userID uuid.UUID, in ProfessorProfileInput) (*types.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*types.User, error)
}

type profileService struct {
	log   *logger.Logger
	users repos.UserRepo
}

func NewProfileService(log *logger.Logger, users repos.UserRepo) ProfileService {
	return &profileService{log: log.With("service", "ProfileService"), users: users}
}

func (ps *profileService) CompleteStudentProfile(ctx context.Context, userID uuid.UUID, in StudentProfileInput) (*types.User, error) {
	name := strings.TrimSpace(in.Name)
	roll := strings.TrimSpace(in.RollNumber)
	if name == "" || roll == "" || strings.TrimSpace(in.Department) == "" || in.Year == 0 || in.Semester == 0 {
		return nil, validationf("All student profile fields are required: name, rollNumber, department, year, semester")
	}
	dept, err := parseDepartment(in.Department)
	if err != nil {
		return nil, err
	}
	if err := checkYear(in.Year); err != nil {
		return nil, err
	}
	if err := checkSemester(in.Semester); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := ps.requireRole(dbc, userID, types.RoleStudent, "Only students can complete student profile"); err != nil {
		return nil, err
	}
	if err := ps.users.UpdateProfileFields(dbc, userID, map[string]any{
		"name":              name,
		"roll_number":       roll,
		"department":        dept,
		"year":              in.Year,
		"semester":          in.Semester,
		"profile_completed": true,
	}); err != nil {
		return nil, fmt.Errorf("complete student profile: %w", err)
	}
	return ps.GetProfile(ctx, userID)
}

func (ps *profileService) CompleteProfessorProfile(ctx context.Context, userID uuid.UUID, in ProfessorProfileInput) (*types.User, error) {
	name := strings.TrimSpace(in.Name)
	college := strings.TrimSpace(in.CollegeName)
	subjects := cleanSubjects(in.Subjects)
	if name == "" || college == "" || len(subjects) == 0 {
		return nil, validationf("All professor profile fields are required: name, collegeName, subjects (array)")
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := ps.requireRole(dbc, userID, types.RoleProfessor, "Only professors can complete professor profile"); err != nil {
		return nil, err
	}
	if err := ps.users.UpdateProfileFields(dbc, userID, map[string]any{
		"name":              name,
		"college_name":      college,
		"subjects":          datatypes.NewJSONSlice(subjects),
		"profile_completed": true,
	}); err != nil {
		return nil, fmt.Errorf("complete professor profile: %w", err)
	}
	return ps.GetProfile(ctx, userID)
}

func (ps *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	u, err := ps.users.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if u == nil {
		return nil, notFound("User not found")
	}
	return u, nil
}

func (ps *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*types.User, error) {
	if patch.empty() {
		return ps.GetProfile(ctx, userID)
	}
	updates := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, validationf("Name cannot be empty")
		}
		updates["name"] = name
	}
	if patch.RollNumber != nil {
		updates["roll_number"] = strings.TrimSpace(*patch.RollNumber)
	}
	if patch.Department != nil {
		dept, err := parseDepartment(*patch.Department)
		if err != nil {
			return nil, err
		}
		updates["department"] = dept
	}
	if patch.Year != nil {
		if err := checkYear(*patch.Year); err != nil {
			return nil, err
		}
		updates["year"] = *patch.Year
	}
	if patch.Semester != nil {
		if err := checkSemester(*patch.Semester); err != nil {
			return nil, err
		}
		updates["semester"] = *patch.Semester
	}
	if patch.CollegeName != nil {
		updates["college_name"] = strings.TrimSpace(*patch.CollegeName)
	}
	if patch.Subjects != nil {
		subjects := cleanSubjects(*patch.Subjects)
		if len(subjects) == 0 {
			return nil, validationf("Subjects must contain at least one subject")
		}
		updates["subjects"] = datatypes.NewJSONSlice(subjects)
	}

	dbc := dbctx.Context{Ctx: ctx}
	existing, err := ps.users.GetByID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if existing == nil {
		return nil, notFound("User not found")
	}
	if err := ps.users.UpdateProfileFields(dbc, userID, updates); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return ps.GetProfile(ctx, userID)
}

func (ps *profileService) requireRole(dbc dbctx.Context, userID uuid.UUID, role types.Role, message string) error {
	u, err := ps.users.GetByID(dbc, userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if u == nil {
		return notFound("User not found")
	}
	if u.Role != role {
		return forbidden(message)
	}
	return nil
}

func parseDepartment(raw string) (types.Department, error) {
	dept, ok := types.ParseDepartment(raw)
	if !ok {
		return "", validationf("Invalid department")
	}
	return dept, nil
}

func checkYear(year int) error {
	if year < user.MinYear || year > user.MaxYear {
		return validationf("Year must be between %d and %d", user.MinYear, user.MaxYear)
	}
	return nil
}

func checkSemester(semester int) error {
	if semester < user.MinSemester || semester > user.MaxSemester {
		return validationf("Semester must be between %d and %d", user.MinSemester, user.MaxSemester)
	}
	return nil
}

func cleanSubjects(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
