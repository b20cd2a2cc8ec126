package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error)
	GetByEmails(dbc dbctx.Context, emails []string) ([]*types.User, error)
	GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	UpsertPasscode(dbc dbctx.Context, email, code string, expiry, now time.Time) error
	ConsumePasscode(dbc dbctx.Context, userID uuid.UUID, code string, now time.Time) (bool, error)
	LinkFederated(dbc dbctx.Context, userID uuid.UUID, federatedID, name string, now time.Time) error
	MarkVerified(dbc dbctx.Context, userID uuid.UUID, now time.Time) error
	UpdateRole(dbc dbctx.Context, userID uuid.UUID, role types.Role) (bool, error)
	UpdateProfileFields(dbc dbctx.Context, userID uuid.UUID, updates map[string]any) error
}

// profileColumns are the only columns UpdateProfileFields may write.
var profileColumns = map[string]bool{
	"name":              true,
	"roll_number":       true,
	"department":        true,
	"year":              true,
	"semester":          true,
	"college_name":      true,
	"subjects":          true,
	"profile_completed": true,
}

var ErrProtectedColumn = errors.New("column not writable through profile update")

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := ur.tx(dbc).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := ur.tx(dbc).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByEmails(dbc dbctx.Context, emails []string) ([]*types.User, error) {
	var results []*types.User
	if len(emails) == 0 {
		return results, nil
	}
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		normalized = append(normalized, types.NormalizeEmail(e))
	}
	if err := ur.tx(dbc).
		Where("email IN ?", normalized).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByID returns nil, nil when no row matches.
func (ur *userRepo) GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var u types.User
	err := ur.tx(dbc).Where("id = ?", userID).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns nil, nil when no row matches.
func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = types.NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	var u types.User
	err := ur.tx(dbc).Where("email = ?", email).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertPasscode stores code and expiry for email in one statement, creating
// an unverified EMAIL_OTP identity when none exists. Existing rows only have
// the passcode columns and updated_at rewritten.
func (ur *userRepo) UpsertPasscode(dbc dbctx.Context, email, code string, expiry, now time.Time) error {
	email = types.NormalizeEmail(email)
	if email == "" || code == "" {
		return fmt.Errorf("upsert passcode: email and code required")
	}
	expiry = expiry.UTC()
	now = now.UTC()
	row := &types.User{
		ID:                 uuid.New(),
		Email:              email,
		Role:               types.RoleStudent,
		AuthMethod:         types.AuthMethodEmailOTP,
		VerificationCode:   &code,
		VerificationExpiry: &expiry,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return ur.tx(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"verification_code", "verification_expiry", "updated_at"}),
		}).
		Create(row).Error
}

// ConsumePasscode marks the identity verified and clears the passcode only if
// code is still the stored one. false means another request got there first.
func (ur *userRepo) ConsumePasscode(dbc dbctx.Context, userID uuid.UUID, code string, now time.Time) (bool, error) {
	res := ur.tx(dbc).
		Model(&types.User{}).
		Where("id = ? AND verification_code = ?", userID, code).
		Updates(map[string]any{
			"is_verified":         true,
			"verification_code":   nil,
			"verification_expiry": nil,
			"updated_at":          now.UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// LinkFederated sets federated_id and name only where they are still empty
// and marks the identity verified. Role and profile are untouched.
func (ur *userRepo) LinkFederated(dbc dbctx.Context, userID uuid.UUID, federatedID, name string, now time.Time) error {
	return ur.tx(dbc).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"federated_id": gorm.Expr("COALESCE(NULLIF(federated_id, ''), ?)", federatedID),
			"name":         gorm.Expr("CASE WHEN name = '' THEN ? ELSE name END", name),
			"is_verified":  true,
			"updated_at":   now.UTC(),
		}).Error
}

func (ur *userRepo) MarkVerified(dbc dbctx.Context, userID uuid.UUID, now time.Time) error {
	return ur.tx(dbc).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"is_verified": true, "updated_at": now.UTC()}).Error
}

func (ur *userRepo) UpdateRole(dbc dbctx.Context, userID uuid.UUID, role types.Role) (bool, error) {
	res := ur.tx(dbc).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"role": role, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (ur *userRepo) UpdateProfileFields(dbc dbctx.Context, userID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	for col := range updates {
		if !profileColumns[col] {
			return fmt.Errorf("%w: %s", ErrProtectedColumn, col)
		}
	}
	values := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		values[k] = v
	}
	values["updated_at"] = time.Now().UTC()
	return ur.tx(dbc).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(values).Error
}
