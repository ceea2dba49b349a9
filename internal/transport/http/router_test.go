package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"aurum/internal/audit"
	"aurum/internal/identity"
	"aurum/internal/jwtauth"
	"aurum/internal/kyc"
	"aurum/internal/lot"
	"aurum/internal/masters"
	"aurum/internal/sales"
	"aurum/internal/seed"
	"aurum/internal/settings"
	"aurum/internal/statesync"
	httpapi "aurum/internal/transport/http"
)

// RouterSuite wires the full stack against in-memory stores and drives it
// through the HTTP surface, the way a client would.
type RouterSuite struct {
	suite.Suite

	server *httptest.Server
	token  string
}

func (s *RouterSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	identityStore := identity.NewInMemoryStore()
	masterStore := masters.NewInMemoryStore()
	lotStore := lot.NewInMemoryStore()
	settingsStore := settings.NewInMemoryStore()

	recorder := audit.NewRecorder(audit.NewInMemoryStore(), log)
	tokens := jwtauth.NewService("test-signing-key", "aurum", time.Hour)

	masterSvc := masters.NewService(masterStore, recorder, log)
	kycSvc := kyc.NewService(kyc.NewInMemoryStore(), recorder, log, kyc.WithCustomerRegistry(masterSvc))
	lotSvc := lot.NewService(lotStore, recorder, log)
	salesSvc := sales.NewService(sales.NewInMemoryStore(), lotSvc, recorder, log)
	settingsSvc := settings.NewService(settingsStore, recorder, log)
	identitySvc := identity.NewService(identityStore, tokens, recorder, log)
	syncSvc := statesync.NewService(masterSvc, lotSvc, salesSvc, settingsSvc, log)

	s.Require().NoError(seed.Run(context.Background(), seed.Stores{
		Identity: identityStore,
		Masters:  masterStore,
		Lots:     lotStore,
		Settings: settingsStore,
	}, log))

	// Metrics stays nil: promauto registers on the process-wide registry and
	// SetupTest runs once per test.
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:    log,
		Validator: tokens,
		Public: []httpapi.Registrar{
			identity.NewHandler(identitySvc, log),
		},
		Authed: []httpapi.Registrar{
			masters.NewHandler(masterSvc, log),
			kyc.NewHandler(kycSvc, log),
			lot.NewHandler(lotSvc, log),
			sales.NewHandler(salesSvc, log),
			settings.NewHandler(settingsSvc, log),
			statesync.NewHandler(syncSvc, log),
			audit.NewHandler(recorder, log),
		},
	})

	s.server = httptest.NewServer(router)
	s.token = s.login("admin", "admin123")
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
}

func (s *RouterSuite) login(username, password string) string {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(s.server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var result struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&result))
	s.Require().NotEmpty(result.Token)
	return result.Token
}

func (s *RouterSuite) do(method, path, token string, payload any) *http.Response {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.server.URL+path, body)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *RouterSuite) TestHealthz() {
	resp, err := http.Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RouterSuite) TestLoginBadPassword() {
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, err := http.Post(s.server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *RouterSuite) TestAuthedRoutesRejectMissingToken() {
	for _, path := range []string{"/state", "/masters", "/sales-orders", "/kyc/records"} {
		resp := s.do(http.MethodGet, path, "", nil)
		resp.Body.Close()
		s.Equal(http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func (s *RouterSuite) TestStateSnapshotAfterSeed() {
	resp := s.do(http.MethodGet, "/state", s.token, nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var snap struct {
		Masters      []json.RawMessage `json:"masters"`
		Transactions []struct {
			LotNo  string `json:"lotNo"`
			Status string `json:"status"`
		} `json:"transactions"`
		SalesOrders []json.RawMessage `json:"salesOrders"`
		GoldRate    float64           `json:"goldRate"`
		SilverRate  float64           `json:"silverRate"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&snap))

	s.NotEmpty(snap.Masters)
	s.Require().Len(snap.Transactions, 1)
	s.Equal("LOT-P-001", snap.Transactions[0].LotNo)
	s.Equal("Pending", snap.Transactions[0].Status)
	s.NotNil(snap.SalesOrders)
	s.InDelta(7250.0, snap.GoldRate, 0.001)
	s.InDelta(94.0, snap.SilverRate, 0.001)
}

func (s *RouterSuite) TestWorkflowApproveThroughAPI() {
	resp := s.do(http.MethodPost, "/workflow/approve", s.token,
		map[string]string{"lotNo": "LOT-P-001", "decision": "Approved", "remarks": "looks right"})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var got struct {
		Status string `json:"status"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.Equal("Approved", got.Status)

	// Re-applying the same decision conflicts with the current state.
	again := s.do(http.MethodPost, "/workflow/approve", s.token,
		map[string]string{"lotNo": "LOT-P-001", "decision": "Approved"})
	again.Body.Close()
	s.Equal(http.StatusConflict, again.StatusCode)
}

func (s *RouterSuite) TestStaffCannotApprove() {
	staffToken := s.login("staff", "staff123")
	resp := s.do(http.MethodPost, "/workflow/approve", staffToken,
		map[string]string{"lotNo": "LOT-P-001", "decision": "Approved"})
	defer resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *RouterSuite) TestKYCVerifyEndpoint() {
	resp := s.do(http.MethodPost, "/kyc/verify", s.token, map[string]string{
		"identityNumber": "234567890124",
		"fullName":       "Ravi Kumar",
		"address":        "14 Mint Street, Sowcarpet, Chennai 600079",
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var got struct {
		Outcome  string `json:"outcome"`
		MaskedID string `json:"maskedId"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.Equal("Verified", got.Outcome)
	s.Equal("XXXX-XXXX-0124", got.MaskedID)
}

func (s *RouterSuite) TestMetricsEndpointIsPublic() {
	resp, err := http.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RouterSuite) TestMasterUpsertAndList() {
	resp := s.do(http.MethodPost, "/masters", s.token, map[string]any{
		"id":         "FR-100",
		"kind":       "FRANCHISE",
		"name":       "Coimbatore East",
		"identifier": "FR-CBE-100",
	})
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	list := s.do(http.MethodGet, "/masters?kind=FRANCHISE", s.token, nil)
	defer list.Body.Close()
	s.Require().Equal(http.StatusOK, list.StatusCode)

	var records []struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.NewDecoder(list.Body).Decode(&records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	s.Contains(ids, "FR-100")
	s.Contains(ids, "FR-001")
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}
