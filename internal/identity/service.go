package identity

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"aurum/internal/audit"
	id "aurum/pkg/domain"
	dErrors "aurum/pkg/domain-errors"
	"aurum/pkg/platform/sentinel"
	"aurum/pkg/requestcontext"
)

// Auditor records mutating actions. Fire-and-forget.
type Auditor interface {
	Record(ctx context.Context, action, module string, payload map[string]any)
}

// TokenIssuer mints a bearer credential for the identity triple.
type TokenIssuer interface {
	GenerateToken(tenantID id.TenantID, userID id.UserID, role id.Role) (string, error)
}

// Service resolves credentials to identities. Login failures are uniform:
// an unknown username and a wrong password are indistinguishable to the
// caller.
type Service struct {
	store   Store
	tokens  TokenIssuer
	auditor Auditor
	logger  *slog.Logger
}

func NewService(store Store, tokens TokenIssuer, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{store: store, tokens: tokens, auditor: auditor, logger: logger}
}

// LoginResult carries the issued credential and the identity it is scoped to.
type LoginResult struct {
	Token    string      `json:"token"`
	TenantID id.TenantID `json:"tenantId"`
	UserID   id.UserID   `json:"userId"`
	Username string      `json:"username"`
	Role     id.Role     `json:"role"`
}

// Login verifies the password and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if username == "" || password == "" {
		return LoginResult{}, dErrors.New(dErrors.CodeValidation, "username and password are required")
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, sentinel.ErrNotFound) {
		return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateToken(user.TenantID, user.ID, user.Role)
	if err != nil {
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	// Login happens before auth middleware, so stamp the identity for the
	// audit entry ourselves.
	auditCtx := requestcontext.WithIdentity(ctx, user.TenantID, user.ID, user.Role)
	s.auditor.Record(auditCtx, audit.ActionLogin, audit.ModuleAuth, map[string]any{
		"username": user.Username,
	})

	return LoginResult{
		Token:    token,
		TenantID: user.TenantID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// HashPassword is the single place passwords become hashes.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
