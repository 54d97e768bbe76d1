package xrplsale

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xrplsale/xrplsale-go/headers"
)

func TestInvestmentsCreateSendsIdempotencyKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/investments" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get(headers.IdempotencyKey)
		var req CreateInvestmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.ProjectID != "proj_1" || req.AmountXRP != "250" {
			t.Fatalf("unexpected body: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(Investment{
			ID:        "inv_1",
			ProjectID: req.ProjectID,
			AmountXRP: req.AmountXRP,
			Status:    InvestmentStatusPending,
			CreatedAt: time.Now().UTC(),
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	inv, err := client.Investments.Create(context.Background(), CreateInvestmentRequest{
		ProjectID:     "proj_1",
		WalletAddress: "rWallet",
		AmountXRP:     "250",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.ID != "inv_1" || inv.Status != InvestmentStatusPending {
		t.Fatalf("unexpected investment: %+v", inv)
	}
	if gotKey == "" {
		t.Fatal("idempotency key header missing")
	}
}

func TestInvestmentsCreateIdempotencyKeyStableAcrossRetries(t *testing.T) {
	var attempts atomic.Int32
	keys := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys[r.Header.Get(headers.IdempotencyKey)] = true
		if attempts.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(Investment{ID: "inv_1"})
	}))
	defer srv.Close()

	client := newRetryingTestClient(t, srv, 2, time.Millisecond)
	if _, err := client.Investments.Create(context.Background(), CreateInvestmentRequest{
		ProjectID:      "proj_1",
		WalletAddress:  "rWallet",
		AmountXRP:      "10",
		IdempotencyKey: "idem_fixed",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(keys) != 1 || !keys["idem_fixed"] {
		t.Fatalf("idempotency key not stable: %v", keys)
	}
}

func TestInvestmentsListFilters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(PaginatedResponse[Investment]{
			Data: []Investment{{ID: "inv_1", Status: InvestmentStatusConfirmed}},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	page, err := client.Investments.List(context.Background(), &InvestmentListOptions{
		ProjectID: "proj_1",
		Status:    InvestmentStatusConfirmed,
		Page:      IntPtr(1),
		Limit:     IntPtr(50),
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := "limit=50&page=1&project_id=proj_1&status=confirmed"
	if gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
	if len(page.Data) != 1 || page.Data[0].Status != InvestmentStatusConfirmed {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestInvestmentsByProjectAndInvestor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("project_id") == "proj_1":
			_ = json.NewEncoder(w).Encode(PaginatedResponse[Investment]{Data: []Investment{{ID: "inv_p"}}})
		case q.Get("wallet_address") == "rWallet":
			_ = json.NewEncoder(w).Encode(PaginatedResponse[Investment]{Data: []Investment{{ID: "inv_w"}}})
		default:
			t.Fatalf("unexpected query %s", r.URL.RawQuery)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()

	byProject, err := client.Investments.GetByProject(ctx, "proj_1", 1, 10)
	if err != nil {
		t.Fatalf("by project: %v", err)
	}
	if byProject.Data[0].ID != "inv_p" {
		t.Fatalf("unexpected: %+v", byProject)
	}

	byInvestor, err := client.Investments.GetByInvestor(ctx, "rWallet", 1, 10)
	if err != nil {
		t.Fatalf("by investor: %v", err)
	}
	if byInvestor.Data[0].ID != "inv_w" {
		t.Fatalf("unexpected: %+v", byInvestor)
	}
}

func TestInvestmentsSimulateAndSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/investments/simulate":
			var req SimulateInvestmentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode: %v", err)
			}
			_ = json.NewEncoder(w).Encode(InvestmentSimulation{
				ProjectID:   req.ProjectID,
				AmountXRP:   req.AmountXRP,
				TokenAmount: "5000",
				Tier:        2,
			})
		case "/investments/summary":
			if r.URL.Query().Get("wallet_address") != "rWallet" {
				t.Fatalf("unexpected query %s", r.URL.RawQuery)
			}
			_ = json.NewEncoder(w).Encode(InvestmentSummary{
				WalletAddress:   "rWallet",
				TotalInvested:   "1200",
				ProjectCount:    3,
				InvestmentCount: 5,
			})
		default:
			t.Fatalf("unexpected request %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()

	sim, err := client.Investments.Simulate(ctx, SimulateInvestmentRequest{ProjectID: "proj_1", AmountXRP: "100"})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if sim.TokenAmount != "5000" || sim.Tier != 2 {
		t.Fatalf("unexpected simulation: %+v", sim)
	}

	summary, err := client.Investments.GetSummary(ctx, "rWallet")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.ProjectCount != 3 || summary.InvestmentCount != 5 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestInvestmentsCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/investments/inv_1/cancel" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Investment{ID: "inv_1", Status: InvestmentStatusCancelled})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	inv, err := client.Investments.Cancel(context.Background(), "inv_1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if inv.Status != InvestmentStatusCancelled {
		t.Fatalf("unexpected investment: %+v", inv)
	}
}

func TestInvestmentsCreateValidatesInput(t *testing.T) {
	client := newWebhookClient(t, "")
	_, err := client.Investments.Create(context.Background(), CreateInvestmentRequest{ProjectID: "proj_1"})
	var cfgErr ConfigError
	if !asError(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T: %v", err, err)
	}
}
