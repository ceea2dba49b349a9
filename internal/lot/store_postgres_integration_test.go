//go:build integration

package lot_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"aurum/internal/lot"
	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
	"aurum/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *lot.PostgresStore
	tenantID id.TenantID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = lot.NewPostgresStore(s.postgres.DB)
	s.tenantID = id.TenantID("TENANT-IT")
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "lots", "tenants"))
	_, err := s.postgres.DB.ExecContext(ctx,
		`INSERT INTO tenants (id, name) VALUES ($1, $2)`, s.tenantID, "Integration Tenant")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) seedLot(lotNo id.LotNo, status lot.Status) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	item := lot.MaterialRow{
		SNo:          1,
		Product:      "Gold Chain",
		Piece:        2,
		Weight:       decimal.RequireFromString("100.000"),
		Purity:       "22K",
		WastePercent: decimal.RequireFromString("2"),
		Rate:         decimal.RequireFromString("7250"),
	}
	item.ComputeDerived()

	s.Require().NoError(s.store.Upsert(context.Background(), lot.Lot{
		LotNo:     lotNo,
		TenantID:  s.tenantID,
		Branch:    "Chennai South",
		Status:    status,
		Items:     []lot.MaterialRow{item},
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func (s *PostgresStoreSuite) TestUpsertRoundTrip() {
	ctx := context.Background()
	s.seedLot("LOT-IT-1", lot.StatusPending)

	got, err := s.store.Get(ctx, s.tenantID, "LOT-IT-1")
	s.Require().NoError(err)
	s.Equal(lot.StatusPending, got.Status)
	s.Require().Len(got.Items, 1)
	s.True(got.Items[0].NetWeight.Equal(decimal.RequireFromString("98.000")),
		"net weight was %s", got.Items[0].NetWeight)
	s.True(got.Items[0].Amount.Equal(decimal.RequireFromString("710500.00")),
		"amount was %s", got.Items[0].Amount)
}

func (s *PostgresStoreSuite) TestUpsertReplacesItems() {
	ctx := context.Background()
	s.seedLot("LOT-IT-2", lot.StatusPending)

	got, err := s.store.Get(ctx, s.tenantID, "LOT-IT-2")
	s.Require().NoError(err)
	got.Items = []lot.MaterialRow{{SNo: 1, Product: "Silver Anklet", Weight: decimal.RequireFromString("250.000")}}
	s.Require().NoError(s.store.Upsert(ctx, got))

	got, err = s.store.Get(ctx, s.tenantID, "LOT-IT-2")
	s.Require().NoError(err)
	s.Require().Len(got.Items, 1)
	s.Equal("Silver Anklet", got.Items[0].Product)
}

func (s *PostgresStoreSuite) TestApplyStatusConditional() {
	ctx := context.Background()
	s.seedLot("LOT-IT-3", lot.StatusPending)

	change := lot.StatusChange{From: lot.StatusPending, To: lot.StatusApproved, At: time.Now()}
	s.Require().NoError(s.store.ApplyStatus(ctx, s.tenantID, "LOT-IT-3", change))

	// Second application observes Approved, not Pending.
	err := s.store.ApplyStatus(ctx, s.tenantID, "LOT-IT-3", change)
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)

	err = s.store.ApplyStatus(ctx, s.tenantID, "LOT-IT-missing", change)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestApplyStatusConcurrentSingleWinner() {
	ctx := context.Background()
	s.seedLot("LOT-IT-4", lot.StatusPending)

	change := lot.StatusChange{From: lot.StatusPending, To: lot.StatusApproved, At: time.Now()}

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.store.ApplyStatus(ctx, s.tenantID, "LOT-IT-4", change)
		}()
	}
	wg.Wait()

	var applied, invalid int
	for _, err := range errs {
		switch {
		case err == nil:
			applied++
		case errors.Is(err, sentinel.ErrInvalidState):
			invalid++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, applied)
	s.Equal(racers-1, invalid)
}

func (s *PostgresStoreSuite) TestTxRollbackLeavesNoPartialState() {
	ctx := context.Background()
	s.seedLot("LOT-IT-5", lot.StatusPaid)

	boom := errors.New("boom")
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		change := lot.StatusChange{From: lot.StatusPaid, To: lot.StatusInTransit, At: time.Now()}
		if err := s.store.ApplyStatus(ctx, s.tenantID, "LOT-IT-5", change); err != nil {
			return err
		}
		if err := s.store.UpsertLogistics(ctx, s.tenantID, "LOT-IT-5", lot.LogisticsDetail{
			VehicleNo:  "TN-09-AB-1234",
			SealNumber: "SEAL-77",
		}); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	got, getErr := s.store.Get(ctx, s.tenantID, "LOT-IT-5")
	s.Require().NoError(getErr)
	s.Equal(lot.StatusPaid, got.Status)
	s.Nil(got.Logistics)
}

func (s *PostgresStoreSuite) TestDetailRecordsRoundTrip() {
	ctx := context.Background()
	s.seedLot("LOT-IT-6", lot.StatusReceivedAtHub)

	melted := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.UpsertMelting(ctx, s.tenantID, "LOT-IT-6", lot.MeltingDetail{
		InputWeight:  decimal.RequireFromString("100.000"),
		OutputWeight: decimal.RequireFromString("98.500"),
		LossWeight:   decimal.RequireFromString("1.500"),
		Operator:     "Shankar",
		Temperature:  1064,
		MeltedAt:     melted,
	}))

	got, err := s.store.Get(ctx, s.tenantID, "LOT-IT-6")
	s.Require().NoError(err)
	s.Require().NotNil(got.Melting)
	s.True(got.Melting.LossWeight.Equal(decimal.RequireFromString("1.500")))
	s.Equal("Shankar", got.Melting.Operator)
}

func (s *PostgresStoreSuite) TestTenantIsolation() {
	ctx := context.Background()
	s.seedLot("LOT-IT-7", lot.StatusPending)

	_, err := s.store.Get(ctx, id.TenantID("TENANT-OTHER"), "LOT-IT-7")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	lots, err := s.store.List(ctx, id.TenantID("TENANT-OTHER"))
	s.Require().NoError(err)
	s.Empty(lots)
}
