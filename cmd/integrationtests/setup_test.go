package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	account "farmify/internal/accountService"
	"farmify/internal/auth"
	bidding "farmify/internal/biddingService"
	checkout "farmify/internal/checkoutService"
	"farmify/internal/doordash"
	listing "farmify/internal/listingService"
	"farmify/internal/paypal"
	"farmify/internal/repository"
	"farmify/internal/server"
	stats "farmify/internal/statsService"
)

// stubPayments approves every payment instantly.
type stubPayments struct {
	orderSeq int
	refunded []string
}

func (s *stubPayments) CreateOrder(_ context.Context, _ float64, _, _ string) (paypal.Order, error) {
	s.orderSeq++
	return paypal.Order{ID: "PP-ORDER-STUB", Status: "CREATED"}, nil
}

func (s *stubPayments) CaptureOrder(_ context.Context, _ string) (paypal.Capture, error) {
	return paypal.Capture{ID: "PP-CAPTURE-STUB", Status: "COMPLETED"}, nil
}

func (s *stubPayments) RefundCapture(_ context.Context, captureID string) error {
	s.refunded = append(s.refunded, captureID)
	return nil
}

// stubDelivery accepts every delivery instantly.
type stubDelivery struct{}

func (stubDelivery) CreateDelivery(_ context.Context, dr doordash.DeliveryRequest) (doordash.Delivery, error) {
	return doordash.Delivery{ExternalDeliveryID: dr.ExternalDeliveryID, DeliveryStatus: "created"}, nil
}

func (stubDelivery) GetDelivery(_ context.Context, id string) (doordash.Delivery, error) {
	return doordash.Delivery{ExternalDeliveryID: id, DeliveryStatus: "enroute_to_dropoff"}, nil
}

// testApp bundles a fully wired router over the in-memory repository so
// tests can reach both the HTTP surface and the seams behind it.
type testApp struct {
	Router   *gin.Engine
	Repo     *repository.MemoryRepo
	Listings *listing.ListingService
	Checkout *checkout.CheckoutService
	Payments *stubPayments
}

// SetupTestApp initializes the router with the in-memory repository for
// integration testing.
func SetupTestApp() *testApp {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	issuer := auth.NewTokenIssuer("integration-test-secret", 1)
	payments := &stubPayments{}

	listingService := listing.NewListingService(repo, repo)
	biddingService := bidding.NewBiddingService(repo, repo, repo)
	accountService := account.NewAccountService(repo, repo, issuer)
	statsService := stats.NewStatsService(repo, repo, repo)
	checkoutService := checkout.NewCheckoutService(repo, payments, stubDelivery{})

	router := server.SetupRouter(server.Services{
		Listings: listingService,
		Bids:     biddingService,
		Accounts: accountService,
		Stats:    statsService,
		Checkout: checkoutService,
		Issuer:   issuer,
	})

	return &testApp{
		Router:   router,
		Repo:     repo,
		Listings: listingService,
		Checkout: checkoutService,
		Payments: payments,
	}
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and
// parses the response envelope.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any, token string) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, reqBody, token)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Data extracts the data object from a response envelope.
func Data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()

	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return data
}

// formatID renders a numeric id from a parsed JSON document as a path
// segment.
func formatID(v any) string {
	return strconv.FormatInt(int64(v.(float64)), 10)
}
