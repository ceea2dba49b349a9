package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"aurum/internal/platform/postgres"
	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
)

// PostgresStore persists tenants and users.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateTenant(ctx context.Context, tenant Tenant) error {
	_, err := postgres.Execer(ctx, s.db).ExecContext(ctx,
		`INSERT INTO tenants (id, name, active, created_at) VALUES ($1, $2, $3, $4)`,
		tenant.ID.String(), tenant.Name, tenant.Active, tenant.CreatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTenant(ctx context.Context, tenantID id.TenantID) (Tenant, error) {
	var (
		tenant Tenant
		rawID  string
	)
	err := postgres.Execer(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, name, active, created_at FROM tenants WHERE id = $1`,
		tenantID.String(),
	).Scan(&rawID, &tenant.Name, &tenant.Active, &tenant.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Tenant{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	tenant.ID = id.TenantID(rawID)
	return tenant, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := postgres.Execer(ctx, s.db).ExecContext(ctx,
		`INSERT INTO users (id, tenant_id, username, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID.String(), user.TenantID.String(), user.Username,
		user.PasswordHash, string(user.Role), user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var (
		user   User
		rawID  string
		tenant string
		role   string
	)
	err := postgres.Execer(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, tenant_id, username, password_hash, role, created_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(&rawID, &tenant, &user.Username, &user.PasswordHash, &role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, sentinel.ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	user.ID = id.UserID(rawID)
	user.TenantID = id.TenantID(tenant)
	user.Role = id.ParseRole(role)
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
