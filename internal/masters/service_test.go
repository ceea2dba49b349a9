package masters

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "aurum/pkg/domain"
	dErrors "aurum/pkg/domain-errors"
	"aurum/pkg/requestcontext"
)

type capturedAudit struct {
	action  string
	module  string
	payload map[string]any
}

type fakeAuditor struct {
	entries []capturedAudit
}

func (f *fakeAuditor) Record(_ context.Context, action, module string, payload map[string]any) {
	f.entries = append(f.entries, capturedAudit{action: action, module: module, payload: payload})
}

type MastersServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	auditor *fakeAuditor
	service *Service
	ctx     context.Context
}

func (s *MastersServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.auditor = &fakeAuditor{}
	s.service = NewService(s.store, s.auditor, slog.Default())
	s.ctx = requestcontext.WithIdentity(context.Background(), "TENANT-A", "USER-001", id.RoleAdmin)
	s.ctx = requestcontext.WithTime(s.ctx, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
}

func (s *MastersServiceSuite) TestUpsertRejectsEmptyName() {
	_, err := s.service.Upsert(s.ctx, Record{
		ID:         "FR-001",
		Kind:       KindFranchise,
		Identifier: "BR-CHN-01",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Empty(s.auditor.entries)
}

func (s *MastersServiceSuite) TestUpsertRejectsEmptyIdentifier() {
	_, err := s.service.Upsert(s.ctx, Record{
		ID:   "FR-001",
		Kind: KindFranchise,
		Name: "Chennai South",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *MastersServiceSuite) TestUpsertRejectsUnknownKind() {
	_, err := s.service.Upsert(s.ctx, Record{
		ID:         "X-001",
		Kind:       Kind("WAREHOUSE"),
		Name:       "Somewhere",
		Identifier: "X",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *MastersServiceSuite) TestUpsertReplacesExistingRecord() {
	_, err := s.service.Upsert(s.ctx, Record{
		ID:         "CUST-001",
		Kind:       KindCustomer,
		Name:       "Ravi Kumar",
		Identifier: "1234-5678-9012",
	})
	s.Require().NoError(err)

	updated, err := s.service.Upsert(s.ctx, Record{
		ID:         "CUST-001",
		Kind:       KindCustomer,
		Name:       "Ravi K Kumar",
		Identifier: "1234-5678-9012",
		Secondary:  "9840012345",
	})
	s.Require().NoError(err)
	s.Equal("Ravi K Kumar", updated.Name)

	records, err := s.service.List(s.ctx, KindCustomer)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("Ravi K Kumar", records[0].Name)
	s.Equal("9840012345", records[0].Secondary)
}

func (s *MastersServiceSuite) TestCustomerDefaultsKYCPending() {
	record, err := s.service.Upsert(s.ctx, Record{
		ID:         "CUST-002",
		Kind:       KindCustomer,
		Name:       "Meena Iyer",
		Identifier: "9876-5432-1098",
	})
	s.Require().NoError(err)
	s.Equal(KYCPending, record.KYCStatus)
}

func (s *MastersServiceSuite) TestNonCustomerKYCStatusStripped() {
	record, err := s.service.Upsert(s.ctx, Record{
		ID:         "HUB-001",
		Kind:       KindHub,
		Name:       "Central Refinery",
		Identifier: "HUB-CEN",
		KYCStatus:  KYCVerified,
	})
	s.Require().NoError(err)
	s.Empty(record.KYCStatus)
}

func (s *MastersServiceSuite) TestListFiltersByKind() {
	for _, r := range []Record{
		{ID: "FR-001", Kind: KindFranchise, Name: "Chennai South", Identifier: "BR-CHN-01"},
		{ID: "HUB-001", Kind: KindHub, Name: "Central Refinery", Identifier: "HUB-CEN"},
		{ID: "FR-002", Kind: KindFranchise, Name: "Madurai West", Identifier: "BR-MDU-02"},
	} {
		_, err := s.service.Upsert(s.ctx, r)
		s.Require().NoError(err)
	}

	franchises, err := s.service.List(s.ctx, KindFranchise)
	s.Require().NoError(err)
	s.Len(franchises, 2)

	all, err := s.service.List(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *MastersServiceSuite) TestUpsertEmitsAuditEntry() {
	_, err := s.service.Upsert(s.ctx, Record{
		ID:         "BUY-001",
		Kind:       KindBuyer,
		Name:       "MMTC-PAMP",
		Identifier: "33AAACM0829Q1ZB",
	})
	s.Require().NoError(err)
	s.Require().Len(s.auditor.entries, 1)
	s.Equal("UPSERT", s.auditor.entries[0].action)
	s.Equal("MASTER", s.auditor.entries[0].module)
	s.Equal("BUY-001", s.auditor.entries[0].payload["id"])
}

func (s *MastersServiceSuite) TestTenantIsolation() {
	_, err := s.service.Upsert(s.ctx, Record{
		ID:         "FR-001",
		Kind:       KindFranchise,
		Name:       "Chennai South",
		Identifier: "BR-CHN-01",
	})
	s.Require().NoError(err)

	ctxB := requestcontext.WithIdentity(context.Background(), "TENANT-B", "USER-099", id.RoleAdmin)
	_, err = s.service.Get(ctxB, "FR-001")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	records, err := s.service.List(ctxB, "")
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *MastersServiceSuite) TestMarkCustomerKYCRejectsNonCustomer() {
	_, err := s.service.Upsert(s.ctx, Record{
		ID:         "HUB-001",
		Kind:       KindHub,
		Name:       "Central Refinery",
		Identifier: "HUB-CEN",
	})
	s.Require().NoError(err)

	err = s.service.MarkCustomerKYC(s.ctx, "HUB-001", KYCVerified)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *MastersServiceSuite) TestMarkCustomerKYCUpdatesStatus() {
	_, err := s.service.Upsert(s.ctx, Record{
		ID:         "CUST-001",
		Kind:       KindCustomer,
		Name:       "Ravi Kumar",
		Identifier: "1234-5678-9012",
	})
	s.Require().NoError(err)

	err = s.service.MarkCustomerKYC(s.ctx, "CUST-001", KYCVerified)
	s.Require().NoError(err)

	record, err := s.service.Get(s.ctx, "CUST-001")
	s.Require().NoError(err)
	s.Equal(KYCVerified, record.KYCStatus)
}

func TestMastersServiceSuite(t *testing.T) {
	suite.Run(t, new(MastersServiceSuite))
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"FRANCHISE", "DESIGNATION", "ORNAMENT_TYPE", "HUB", "BUYER", "STAFF", "CUSTOMER"} {
		_, err := ParseKind(valid)
		require.NoError(t, err, valid)
	}
	_, err := ParseKind("franchise")
	require.Error(t, err)
}
