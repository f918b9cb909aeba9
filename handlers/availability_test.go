package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slotfinder/models"
	"slotfinder/services/availability"
	"slotfinder/services/catalog"

	"github.com/gin-gonic/gin"
)

var phx = time.FixedZone("MST", -7*3600)

func at(h, m int) time.Time {
	return time.Date(2026, 1, 21, h, m, 0, 0, phx)
}

type fakeService struct {
	concurrent *availability.ConcurrentOutcome
	group      *availability.GroupOutcome
	staggered  *availability.StaggeredOutcome
	roster     []models.Provider
	err        error
	last       availability.Query
}

func (f *fakeService) FindConcurrent(_ context.Context, q availability.Query) (*availability.ConcurrentOutcome, error) {
	f.last = q
	return f.concurrent, f.err
}

func (f *fakeService) FindGroup(_ context.Context, q availability.Query) (*availability.GroupOutcome, error) {
	f.last = q
	return f.group, f.err
}

func (f *fakeService) FindStaggered(_ context.Context, q availability.Query) (*availability.StaggeredOutcome, error) {
	f.last = q
	return f.staggered, f.err
}

func (f *fakeService) Roster(context.Context) ([]models.Provider, error) {
	return f.roster, f.err
}

func newTestRouter(svc availability.AvailabilityService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAvailabilityHandler(svc, catalog.NewResolver(nil))
	r := gin.New()
	r.POST("/find-multi-availability", h.FindMultiAvailability)
	r.POST("/find-group-availability", h.FindGroupAvailability)
	r.POST("/find-stylist-availability", h.FindStylistAvailability)
	r.GET("/stylists", h.ListStylists)
	r.GET("/services", h.ListServices)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec, out
}

func dates() models.DateRange {
	return models.DateRange{Start: at(0, 0), End: at(0, 0)}
}

func match(h int) models.MatchedSlot {
	return models.MatchedSlot{
		Start: at(h, 0),
		Assignments: []models.Assignment{
			{Guest: 1, ProviderID: "a", ProviderName: "Ana", ServiceID: "s", End: at(h, 30), Price: 25},
			{Guest: 2, ProviderID: "b", ProviderName: "Bo", ServiceID: "s", End: at(h, 30), Price: 30},
		},
		TotalPrice: 55,
	}
}

func TestFindMultiAvailabilityFound(t *testing.T) {
	var matches []models.MatchedSlot
	for h := 8; h < 20; h++ {
		matches = append(matches, match(h))
	}
	svc := &fakeService{concurrent: &availability.ConcurrentOutcome{Dates: dates(), GuestCount: 2, Matches: matches}}

	rec, body := do(t, newTestRouter(svc), http.MethodPost, "/find-multi-availability", gin.H{
		"services": []string{"haircut", "haircut"}, "specific_date": "2026-01-21", "preferred_stylist": "Ana",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["success"] != true || body["found"] != true {
		t.Fatalf("unexpected flags %v", body)
	}
	if n := body["total_concurrent_slots"].(float64); n != 12 {
		t.Fatalf("expected 12 total, got %v", n)
	}
	if n := len(body["all_slots"].([]interface{})); n != 10 {
		t.Fatalf("expected top 10, got %d", n)
	}
	earliest := body["earliest_slot"].(map[string]interface{})
	if earliest["formatted_full"] != "Wednesday, January 21st at 8:00 AM" {
		t.Fatalf("unexpected formatted_full %v", earliest["formatted_full"])
	}
	if earliest["total_price"].(float64) != 55 {
		t.Fatalf("unexpected total price %v", earliest["total_price"])
	}
	if svc.last.PreferredProvider != "Ana" || svc.last.SpecificDate != "2026-01-21" {
		t.Fatalf("query not forwarded: %+v", svc.last)
	}
}

func TestFindMultiAvailabilityNotFound(t *testing.T) {
	svc := &fakeService{concurrent: &availability.ConcurrentOutcome{Dates: dates(), GuestCount: 3}}
	rec, body := do(t, newTestRouter(svc), http.MethodPost, "/find-multi-availability", gin.H{"services": []string{"a", "b", "c"}})
	if rec.Code != http.StatusOK || body["success"] != true || body["found"] != false {
		t.Fatalf("expected a successful not-found response, got %d %v", rec.Code, body)
	}
	if body["message"] != "No concurrent availability found for 3 guests in the date range" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if _, ok := body["earliest_slot"]; ok {
		t.Fatalf("earliest_slot should be omitted")
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &availability.ValidationError{Message: "Invalid service name(s) provided: haircutz"}, http.StatusBadRequest},
		{"auth", fmt.Errorf("acquire upstream token: %w", availability.ErrUpstreamAuth), http.StatusBadGateway},
		{"other", fmt.Errorf("load roster: boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := do(t, newTestRouter(&fakeService{err: tc.err}), http.MethodPost, "/find-multi-availability", gin.H{"services": []string{"haircutz"}})
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if body["success"] != false || body["error"] == "" {
				t.Fatalf("expected structured failure, got %v", body)
			}
		})
	}
}

func TestValidationHintListsStylists(t *testing.T) {
	svc := &fakeService{err: &availability.ValidationError{Message: `Unknown stylist "Zed"`, Hint: []string{"Mari", "Jay"}}}
	_, body := do(t, newTestRouter(svc), http.MethodPost, "/find-stylist-availability", gin.H{"stylist": "Zed", "services": []string{"fade", "locks"}})
	hint, ok := body["available_stylists"].([]interface{})
	if !ok || len(hint) != 2 || hint[0] != "Mari" {
		t.Fatalf("expected roster hint, got %v", body)
	}
}

func TestInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newTestRouter(&fakeService{})
	req := httptest.NewRequest(http.MethodPost, "/find-group-availability", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func slot(provider string, start time.Time, length time.Duration) models.Slot {
	return models.Slot{ProviderID: provider, ProviderName: provider, ServiceID: "s", Start: start, End: start.Add(length), Price: 30}
}

func TestFindGroupAvailabilityMessages(t *testing.T) {
	fade := slot("A", at(9, 0), 30*time.Minute)
	locks := slot("B", at(9, 35), 45*time.Minute)
	services := []models.ServiceAvailability{
		{ServiceID: "f", ServiceName: "Haircut Skin Fade", Slots: []models.Slot{fade}},
		{ServiceID: "l", ServiceName: "Long Locks", Slots: []models.Slot{locks}},
	}

	cases := []struct {
		name     string
		outcome  *availability.GroupOutcome
		message  string
		sameTime bool
		b2b      bool
	}{
		{
			name:    "back to back only",
			outcome: &availability.GroupOutcome{Dates: dates(), Services: services, SameTime: []models.SlotPair{}, BackToBack: []models.SlotPair{{First: fade, Second: locks, GapMinutes: 5}}},
			message: "No same-time slots available. Found 1 back-to-back options",
			b2b:     true,
		},
		{
			name:     "same time",
			outcome:  &availability.GroupOutcome{Dates: dates(), Services: services, SameTime: []models.SlotPair{{First: fade, Second: slot("B", at(9, 0), time.Hour)}}},
			message:  "Found 1 same-time slots and 0 back-to-back options",
			sameTime: true,
		},
		{
			name:    "nothing",
			outcome: &availability.GroupOutcome{Dates: dates(), Services: services},
			message: "No compatible slots found for these services",
		},
		{
			name:    "single service",
			outcome: &availability.GroupOutcome{Dates: dates(), Services: services[:1]},
			message: "Found 1 openings for Haircut Skin Fade",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, body := do(t, newTestRouter(&fakeService{group: tc.outcome}), http.MethodPost, "/find-group-availability", gin.H{"services": []string{"fade", "locks"}})
			if body["message"] != tc.message {
				t.Fatalf("expected %q, got %v", tc.message, body["message"])
			}
			if body["same_time_available"] != tc.sameTime || body["back_to_back_available"] != tc.b2b {
				t.Fatalf("unexpected availability flags %v", body)
			}
			if _, ok := body["availability_by_service"].(map[string]interface{})["Haircut Skin Fade"]; !ok {
				t.Fatalf("expected per-service availability keyed by name")
			}
		})
	}
}

func TestFindGroupAvailabilityPairShape(t *testing.T) {
	fade := slot("A", at(9, 0), 30*time.Minute)
	locks := slot("B", at(9, 35), 45*time.Minute)
	svc := &fakeService{group: &availability.GroupOutcome{
		Dates: dates(),
		Services: []models.ServiceAvailability{
			{ServiceName: "Haircut Skin Fade", Slots: []models.Slot{fade}},
			{ServiceName: "Long Locks", Slots: []models.Slot{locks}},
		},
		BackToBack: []models.SlotPair{{First: fade, Second: locks, GapMinutes: 5}},
	}}
	_, body := do(t, newTestRouter(svc), http.MethodPost, "/find-group-availability", gin.H{"services": []string{"fade", "locks"}})

	opt := body["back_to_back_options"].([]interface{})[0].(map[string]interface{})
	if opt["gap_minutes"].(float64) != 5 {
		t.Fatalf("unexpected gap %v", opt["gap_minutes"])
	}
	g2 := opt["guest2"].(map[string]interface{})
	if g2["service"] != "Long Locks" || g2["stylist_id"] != "B" {
		t.Fatalf("unexpected guest2 %v", g2)
	}
}

func TestFindStylistAvailability(t *testing.T) {
	fade := slot("Mari", at(9, 0), 30*time.Minute)
	locks := slot("Mari", at(9, 38), 45*time.Minute)
	svc := &fakeService{staggered: &availability.StaggeredOutcome{
		Dates:    dates(),
		Provider: models.Provider{ID: "m1", Name: "Marisol", Nickname: "Mari"},
		Services: []models.ServiceAvailability{
			{ServiceName: "Haircut Skin Fade", Slots: []models.Slot{fade}},
			{ServiceName: "Long Locks", Slots: []models.Slot{locks}},
		},
		BackToBack: []models.SlotPair{{First: fade, Second: locks, GapMinutes: 8}},
	}}
	_, body := do(t, newTestRouter(svc), http.MethodPost, "/find-stylist-availability", gin.H{"stylist": "mari", "services": []string{"fade", "locks"}})
	if body["message"] != "Found 1 back-to-back options with Mari" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if svc.last.Provider != "mari" {
		t.Fatalf("stylist not forwarded: %+v", svc.last)
	}
}

func TestListEndpoints(t *testing.T) {
	svc := &fakeService{roster: []models.Provider{{ID: "1", Name: "Marisol", Nickname: "Mari"}}}
	r := newTestRouter(svc)

	_, body := do(t, r, http.MethodGet, "/stylists", nil)
	stylists := body["stylists"].([]interface{})
	if len(stylists) != 1 || stylists[0].(map[string]interface{})["display_name"] != "Mari" {
		t.Fatalf("unexpected stylists %v", body)
	}

	_, body = do(t, r, http.MethodGet, "/services", nil)
	if n := len(body["services"].([]interface{})); n != len(catalog.DefaultServices) {
		t.Fatalf("expected %d services, got %d", len(catalog.DefaultServices), n)
	}
}
