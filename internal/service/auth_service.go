package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cscportal/api/internal/ids"
	"cscportal/api/internal/models"
)

const minPasswordLength = 6

type AuthService struct {
	admins     AdminStore
	hasher     PasswordHasher
	tokens     TokenIssuer
	setupToken string
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(admins AdminStore, hasher PasswordHasher, tokens TokenIssuer, setupToken string, log zerolog.Logger) *AuthService {
	return &AuthService{
		admins:     admins,
		hasher:     hasher,
		tokens:     tokens,
		setupToken: setupToken,
		log:        log,
		now:        time.Now,
	}
}

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       models.AdminRole
	SetupToken string
}

type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

type AuthResult struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
	Admin     models.Administrator `json:"admin"`
}

// Register creates an administrator. While no administrator exists the call
// is open and the role defaults to superadmin. Afterwards it needs either the
// configured setup token or an acting superadmin, and the role defaults to admin.
func (s *AuthService) Register(ctx context.Context, actor *models.Administrator, input RegisterInput) (AuthResult, error) {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return AuthResult{}, err
	}

	authorized := s.validSetupToken(input.SetupToken) ||
		(actor != nil && actor.Role == models.AdminRoleSuperAdmin)
	setup := count == 0 && !authorized
	if count > 0 && !authorized {
		return AuthResult{}, models.ErrSetupClosed
	}

	defaultRole := models.AdminRoleAdmin
	if count == 0 {
		defaultRole = models.AdminRoleSuperAdmin
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if input.Role == "" {
		input.Role = defaultRole
	}

	var v models.Validator
	v.Check(input.Name != "", "name", "is required")
	v.Check(validEmail(input.Email), "email", "must be a valid email address")
	v.Check(len(input.Password) >= minPasswordLength, "password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	v.Check(input.Role.Valid(), "role", "must be admin or superadmin")
	if err := v.Err(); err != nil {
		return AuthResult{}, err
	}

	if _, err := s.admins.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, models.DuplicateError("admin with this email")
	} else if !errors.Is(err, models.ErrNotFound) {
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return AuthResult{}, models.Dependency("hash password", err)
	}

	now := s.now().UTC()
	admin := models.Administrator{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	create := s.admins.Create
	if setup {
		create = s.admins.CreateFirst
	}
	if err := create(ctx, admin); err != nil {
		return AuthResult{}, err
	}

	s.log.Info().Str("admin_id", admin.ID).Str("role", string(admin.Role)).Msg("administrator registered")
	return s.issue(admin)
}

// Login never tells an unknown email apart from a wrong password. The
// deactivated state is only revealed to a caller holding the right password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	admin, err := s.admins.FindByEmail(ctx, normalizeEmail(input.Email))
	if errors.Is(err, models.ErrNotFound) {
		return AuthResult{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}

	ok, err := s.hasher.Verify(input.Password, admin.PasswordHash)
	if err != nil {
		s.log.Warn().Err(err).Str("admin_id", admin.ID).Msg("stored password hash unreadable")
		return AuthResult{}, models.ErrInvalidCredentials
	}
	if !ok {
		return AuthResult{}, models.ErrInvalidCredentials
	}
	if !admin.IsActive {
		return AuthResult{}, models.ErrAccountDeactivated
	}

	rec := models.LoginRecord{IP: input.IP, UserAgent: input.UserAgent, Timestamp: s.now().UTC()}
	if err := s.admins.AppendLogin(ctx, admin.ID, rec); err != nil {
		return AuthResult{}, err
	}
	admin.RecordLogin(rec)

	if s.hasher.NeedsRehash(admin.PasswordHash) {
		s.rehash(ctx, admin.ID, input.Password)
	}

	return s.issue(admin)
}

func (s *AuthService) rehash(ctx context.Context, adminID, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.admins.UpdatePassword(ctx, adminID, hash)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("admin_id", adminID).Msg("upgrade legacy password hash failed")
	}
}

// Validate resolves a bearer token to a live administrator.
func (s *AuthService) Validate(ctx context.Context, token string) (models.Administrator, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return models.Administrator{}, models.ErrInvalidToken
	}

	admin, err := s.admins.GetByID(ctx, claims.AdminID)
	if errors.Is(err, models.ErrNotFound) {
		return models.Administrator{}, models.ErrInvalidToken
	}
	if err != nil {
		return models.Administrator{}, err
	}
	if !admin.IsActive {
		return models.Administrator{}, models.ErrInvalidToken
	}
	return admin, nil
}

// ChangePassword does not revoke tokens issued before the change.
func (s *AuthService) ChangePassword(ctx context.Context, adminID, current, next string) error {
	var v models.Validator
	v.Check(current != "", "currentPassword", "is required")
	v.Check(len(next) >= minPasswordLength, "newPassword", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	if err := v.Err(); err != nil {
		return err
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	ok, err := s.hasher.Verify(current, admin.PasswordHash)
	if err != nil || !ok {
		return models.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return models.Dependency("hash password", err)
	}
	return s.admins.UpdatePassword(ctx, adminID, hash)
}

func (s *AuthService) Profile(ctx context.Context, adminID string) (models.Administrator, error) {
	return s.admins.GetByID(ctx, adminID)
}

type ProfileInput struct {
	Name  *string
	Email *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, adminID string, input ProfileInput) (models.Administrator, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return models.Administrator{}, err
	}

	name, email := admin.Name, admin.Email
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email = normalizeEmail(*input.Email)
	}

	var v models.Validator
	v.Check(name != "", "name", "is required")
	v.Check(validEmail(email), "email", "must be a valid email address")
	if err := v.Err(); err != nil {
		return models.Administrator{}, err
	}

	if email != admin.Email {
		existing, err := s.admins.FindByEmail(ctx, email)
		if err == nil && existing.ID != adminID {
			return models.Administrator{}, models.DuplicateError("admin with this email")
		}
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return models.Administrator{}, err
		}
	}

	return s.admins.UpdateProfile(ctx, adminID, name, email)
}

func (s *AuthService) issue(admin models.Administrator) (AuthResult, error) {
	token, expires, err := s.tokens.Sign(admin)
	if err != nil {
		return AuthResult{}, models.Dependency("sign token", err)
	}
	return AuthResult{Token: token, ExpiresAt: expires, Admin: admin}, nil
}

func (s *AuthService) validSetupToken(token string) bool {
	if s.setupToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.setupToken)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
