// Package seed loads a demo tenant with users, masters, lots and market
// rates so a fresh instance is explorable without any setup.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"aurum/internal/identity"
	"aurum/internal/lot"
	"aurum/internal/masters"
	"aurum/internal/settings"
	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
	"aurum/pkg/requestcontext"
)

const (
	demoTenantID   = id.TenantID("TENANT-MAIN")
	demoTenantName = "True Money Gold HQ"
)

// Stores collects everything the seed writes to.
type Stores struct {
	Identity identity.Store
	Masters  masters.Store
	Lots     lot.Store
	Settings settings.Store
}

// Run seeds the demo tenant. Idempotent: if the tenant already exists the
// seed is assumed applied and nothing is written.
func Run(ctx context.Context, stores Stores, logger *slog.Logger) error {
	now := requestcontext.Now(ctx)

	err := stores.Identity.CreateTenant(ctx, identity.Tenant{
		ID:        demoTenantID,
		Name:      demoTenantName,
		Active:    true,
		CreatedAt: now,
	})
	if errors.Is(err, sentinel.ErrConflict) {
		logger.InfoContext(ctx, "demo tenant already present, skipping seed")
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed tenant: %w", err)
	}

	users := []struct {
		id       id.UserID
		username string
		password string
		role     id.Role
	}{
		{"USER-ADMIN", "admin", "admin123", id.RoleAdmin},
		{"USER-RH", "rhead", "rh123", id.RoleManager},
		{"USER-STAFF", "staff", "staff123", id.RoleStaff},
	}
	for _, u := range users {
		hash, err := identity.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
		err = stores.Identity.CreateUser(ctx, identity.User{
			ID:           u.id,
			TenantID:     demoTenantID,
			Username:     u.username,
			PasswordHash: hash,
			Role:         u.role,
			CreatedAt:    now,
		})
		if err != nil && !errors.Is(err, sentinel.ErrConflict) {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}

	records := []masters.Record{
		{ID: "FR-001", Kind: masters.KindFranchise, Name: "Chennai South", Identifier: "BR-CHN-01", Secondary: "044-2468-1357"},
		{ID: "FR-002", Kind: masters.KindFranchise, Name: "Madurai West", Identifier: "BR-MDU-02", Secondary: "0452-884-2211"},
		{ID: "HUB-001", Kind: masters.KindHub, Name: "Central Refinery", Identifier: "HUB-CEN", Secondary: "Ambattur Industrial Estate"},
		{ID: "BUY-001", Kind: masters.KindBuyer, Name: "MMTC-PAMP", Identifier: "33AAACM0829Q1ZB"},
		{ID: "CUST-001", Kind: masters.KindCustomer, Name: "Ravi Kumar", Identifier: "XXXX-XXXX-0124", KYCStatus: masters.KYCPending},
	}
	for _, record := range records {
		record.TenantID = demoTenantID
		record.CreatedAt = now
		record.UpdatedAt = now
		if err := stores.Masters.Upsert(ctx, record); err != nil {
			return fmt.Errorf("seed master %s: %w", record.ID, err)
		}
	}

	demoLot := lot.Lot{
		LotNo:        "LOT-P-001",
		TenantID:     demoTenantID,
		Branch:       "Chennai South",
		RefNo:        "REF-2026-0001",
		LotDate:      now.Format("2006-01-02"),
		CustomerID:   "CUST-001",
		CustomerName: "Ravi Kumar",
		Status:       lot.StatusPending,
		Items: []lot.MaterialRow{
			{SNo: 1, Product: "Gold Chain", Piece: 2, Weight: dec("100"), Purity: "22K", WastePercent: dec("2"), Rate: dec("7250")},
			{SNo: 2, Product: "Silver Anklet", Piece: 4, Weight: dec("250"), Purity: "925", WastePercent: dec("5"), Rate: dec("94")},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range demoLot.Items {
		demoLot.Items[i].ComputeDerived()
	}
	if err := stores.Lots.Upsert(ctx, demoLot); err != nil {
		return fmt.Errorf("seed lot %s: %w", demoLot.LotNo, err)
	}

	rates := map[string]string{
		settings.KeyGoldRate:   "7250",
		settings.KeySilverRate: "94",
	}
	for key, value := range rates {
		if err := stores.Settings.Set(ctx, demoTenantID, key, value); err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}

	logger.InfoContext(ctx, "demo data seeded",
		"tenant_id", demoTenantID.String(),
		"users", len(users),
		"masters", len(records),
	)
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
