package integrationtests

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"docportal/test/integration/testutil"
)

// These tests run against a live portal instance pointed at a disposable
// database. They are skipped unless TEST_SERVER_URL is set.

var httpClient *testutil.Client

func TestPortal(t *testing.T) {
	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration tests")
	}

	httpClient = testutil.NewClient(serverURL)
	httpClient.WaitForHealthy(t, 30*time.Second)

	testAvailabilityStrategiesAgree(t)
	testBookingConflict(t)
	testTokenIssuance(t)
	testPrivilegedRoutes(t)
}

type availabilityOption struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Slots []string `json:"slots"`
}

func fetchOptions(t *testing.T, path string) []availabilityOption {
	t.Helper()
	resp := httpClient.GET(t, path)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var options []availabilityOption
	if err := resp.UnmarshalBody(&options); err != nil {
		t.Fatalf("failed to decode options from %s: %v", path, err)
	}
	return options
}

// The host-side diff and the store-side aggregation must serve identical
// availability for the same date.
func testAvailabilityStrategiesAgree(t *testing.T) {
	date := "May 15, 2026"

	hostSide := fetchOptions(t, "/appointmentOptions?date="+strings.ReplaceAll(date, " ", "%20"))
	storeSide := fetchOptions(t, "/v2/appointmentOptions?date="+strings.ReplaceAll(date, " ", "%20"))

	if len(hostSide) != len(storeSide) {
		t.Fatalf("strategies disagree on option count: %d vs %d", len(hostSide), len(storeSide))
	}

	sort.Slice(hostSide, func(i, j int) bool { return hostSide[i].Name < hostSide[j].Name })
	sort.Slice(storeSide, func(i, j int) bool { return storeSide[i].Name < storeSide[j].Name })

	for i := range hostSide {
		h, s := hostSide[i], storeSide[i]
		if h.Name != s.Name || h.Price != s.Price {
			t.Errorf("option %d differs: %+v vs %+v", i, h, s)
			continue
		}
		if len(h.Slots) != len(s.Slots) {
			t.Errorf("option %s slot counts differ: %v vs %v", h.Name, h.Slots, s.Slots)
			continue
		}
		for j := range h.Slots {
			if h.Slots[j] != s.Slots[j] {
				t.Errorf("option %s slots differ at %d: %v vs %v", h.Name, j, h.Slots, s.Slots)
				break
			}
		}
	}
}

func testBookingConflict(t *testing.T) {
	// Unique identity per run keeps reruns from colliding with old data.
	email := fmt.Sprintf("it-%d@example.com", time.Now().UnixNano())
	date := "Jun 1, 2026"
	booking := map[string]any{
		"email":           email,
		"treatment":       "Teeth Cleaning",
		"appointmentDate": date,
		"slot":            "10AM",
	}

	resp := httpClient.POST(t, "/bookings", booking)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var first struct {
		Acknowledged bool   `json:"acknowledged"`
		InsertedID   string `json:"insertedId"`
	}
	if err := resp.UnmarshalBody(&first); err != nil {
		t.Fatalf("failed to decode receipt: %v", err)
	}
	if !first.Acknowledged || first.InsertedID == "" {
		t.Fatalf("first booking not acknowledged: %+v", first)
	}

	// Same key, different slot: still a conflict.
	booking["slot"] = "11AM"
	resp = httpClient.POST(t, "/bookings", booking)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var second struct {
		Acknowledged bool   `json:"acknowledged"`
		Message      string `json:"message"`
	}
	if err := resp.UnmarshalBody(&second); err != nil {
		t.Fatalf("failed to decode receipt: %v", err)
	}
	if second.Acknowledged {
		t.Fatal("duplicate booking was acknowledged")
	}
	if !strings.Contains(second.Message, date) {
		t.Errorf("rejection message %q does not name the date", second.Message)
	}

	listResp := httpClient.GET(t, "/bookings?email="+strings.ReplaceAll(email, "@", "%40"))
	testutil.AssertStatusCode(t, listResp, http.StatusOK)
	var mine []map[string]any
	if err := listResp.UnmarshalBody(&mine); err != nil {
		t.Fatalf("failed to decode bookings: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("expected 1 booking for %s, got %d", email, len(mine))
	}
}

func testTokenIssuance(t *testing.T) {
	email := fmt.Sprintf("it-user-%d@example.com", time.Now().UnixNano())

	resp := httpClient.GET(t, "/jwt?email="+strings.ReplaceAll(email, "@", "%40"))
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)

	createResp := httpClient.POST(t, "/users", map[string]any{
		"name":  "Integration User",
		"email": email,
	})
	testutil.AssertStatusCode(t, createResp, http.StatusOK)

	resp = httpClient.GET(t, "/jwt?email="+strings.ReplaceAll(email, "@", "%40"))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var token struct {
		AccessToken string `json:"accessToken"`
	}
	if err := resp.UnmarshalBody(&token); err != nil {
		t.Fatalf("failed to decode token: %v", err)
	}
	if token.AccessToken == "" {
		t.Fatal("registered email received no token")
	}
}

func testPrivilegedRoutes(t *testing.T) {
	resp := httpClient.GET(t, "/doctors")
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	testutil.AssertContains(t, resp, "unauthorized access")

	resp = httpClient.GETWithToken(t, "/doctors", "garbled.token.value")
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)
	testutil.AssertContains(t, resp, "Forbidden access")

	// A freshly registered user holds no admin role.
	email := fmt.Sprintf("it-plain-%d@example.com", time.Now().UnixNano())
	createResp := httpClient.POST(t, "/users", map[string]any{"email": email})
	testutil.AssertStatusCode(t, createResp, http.StatusOK)

	tokenResp := httpClient.GET(t, "/jwt?email="+strings.ReplaceAll(email, "@", "%40"))
	testutil.AssertStatusCode(t, tokenResp, http.StatusOK)
	var token struct {
		AccessToken string `json:"accessToken"`
	}
	if err := tokenResp.UnmarshalBody(&token); err != nil {
		t.Fatalf("failed to decode token: %v", err)
	}

	resp = httpClient.GETWithToken(t, "/doctors", token.AccessToken)
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)

	adminResp := httpClient.GET(t, "/users/admin/"+strings.ReplaceAll(email, "@", "%40"))
	testutil.AssertStatusCode(t, adminResp, http.StatusOK)
	var status struct {
		IsAdmin bool `json:"isAdmin"`
	}
	if err := adminResp.UnmarshalBody(&status); err != nil {
		t.Fatalf("failed to decode admin status: %v", err)
	}
	if status.IsAdmin {
		t.Error("fresh user reported as admin")
	}
}
