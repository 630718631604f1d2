package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"archetype-quiz-service/internal/app"
	"archetype-quiz-service/internal/clock"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/infra/memory"
	"github.com/gorilla/mux"
)

func newTestServices(now func() time.Time) *app.Services {
	return app.New(memory.NewStore(), app.Options{
		Clock: clock.Func(now),
		PaymentURLs: map[domain.Product]string{
			domain.ProductReport: "https://pay.example.com/report",
		},
	})
}

type apiHarness struct {
	t      *testing.T
	svc    *app.Services
	router *mux.Router
	now    time.Time
}

func newHarness(t *testing.T) *apiHarness {
	h := &apiHarness{t: t, now: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)}
	h.svc = newTestServices(func() time.Time { return h.now })
	h.router = NewRouter(h.svc, nil)
	return h
}

func (h *apiHarness) do(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			h.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *apiHarness) createProfile() string {
	h.t.Helper()
	rec := h.do("POST", "/api/profiles", nil)
	if rec.Code != http.StatusCreated {
		h.t.Fatalf("create profile: %d %s", rec.Code, rec.Body)
	}
	var p domain.Profile
	decode(h.t, rec, &p)
	return p.ID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func allSelections(idx int) domain.QuizSubmission {
	sel := make([]int, 11)
	for i := range sel {
		sel[i] = idx
	}
	return domain.QuizSubmission{Selections: sel}
}

func TestQuizPurchaseFlow(t *testing.T) {
	h := newHarness(t)
	id := h.createProfile()
	base := "/api/profiles/" + id

	rec := h.do("POST", base+"/quiz", allSelections(0))
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body)
	}
	var outcome domain.QuizOutcome
	decode(t, rec, &outcome)
	if outcome.Archetype != domain.ArchetypeArchitect {
		t.Fatalf("expected A, got %s", outcome.Archetype)
	}

	var res app.AssessmentResult
	decode(t, h.do("GET", base+"/result", nil), &res)
	if !res.Locked {
		t.Fatalf("expected locked teaser")
	}

	var link purchaseLink
	decode(t, h.do("POST", base+"/purchases/report", nil), &link)
	if link.URL != "https://pay.example.com/report" {
		t.Fatalf("unexpected link %+v", link)
	}

	rec = h.do("POST", base+"/purchases/report/complete", nil)
	var delivery domain.DeliveryRecord
	decode(t, rec, &delivery)
	if !strings.HasPrefix(delivery.Reference, "ARC-2026-") {
		t.Fatalf("unexpected delivery %+v", delivery)
	}

	if rec := h.do("POST", base+"/delivery/confirm", nil); rec.Code != http.StatusTooEarly {
		t.Fatalf("expected 425, got %d", rec.Code)
	}
	h.now = h.now.Add(app.DefaultConfirmWait)
	if rec := h.do("POST", base+"/delivery/confirm", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected confirmation, got %d %s", rec.Code, rec.Body)
	}

	decode(t, h.do("GET", base+"/result", nil), &res)
	if res.Locked || len(res.Archetype.Strengths) == 0 {
		t.Fatalf("expected the full result, got %+v", res)
	}
}

func TestUnknownProfileIs404(t *testing.T) {
	h := newHarness(t)
	if rec := h.do("GET", "/api/profiles/missing/unlocks", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBadRequests(t *testing.T) {
	h := newHarness(t)
	base := "/api/profiles/" + h.createProfile()

	if rec := h.do("POST", base+"/quiz", domain.QuizSubmission{Selections: []int{1}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete quiz, got %d", rec.Code)
	}
	if rec := h.do("POST", base+"/purchases/yacht", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}
	if rec := h.do("POST", base+"/suites/brain/enroll", nil); rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402 for locked suite, got %d", rec.Code)
	}
	if rec := h.do("GET", base+"/result", nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 without quiz, got %d", rec.Code)
	}
}

func TestActivationFlagUnlocksEverything(t *testing.T) {
	h := newHarness(t)
	base := "/api/profiles/" + h.createProfile()

	var state domain.UnlockState
	decode(t, h.do("GET", base+"/unlocks?activate=true", nil), &state)
	for _, p := range domain.Products {
		if !state.Flags[p] {
			t.Fatalf("expected %s unlocked, got %+v", p, state.Flags)
		}
	}
	if state.Delivery == nil || !state.Delivery.Confirmed {
		t.Fatalf("expected fabricated delivery, got %+v", state.Delivery)
	}
}

func TestSuiteAndChecklistRoutes(t *testing.T) {
	h := newHarness(t)
	base := "/api/profiles/" + h.createProfile()
	h.do("GET", base+"/unlocks?activate=true", nil)

	if rec := h.do("POST", base+"/suites/brain/enroll", nil); rec.Code != http.StatusOK {
		t.Fatalf("enroll: %d %s", rec.Code, rec.Body)
	}
	rec := h.do("POST", base+"/suites/brain/complete", completeRequest{Results: []domain.ChallengeResult{{Label: "Color Conflict", Points: 200}}})
	var outcome domain.SuiteOutcome
	decode(t, rec, &outcome)
	if outcome.Total != 200 || outcome.Bonus != 10 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	var prog suiteProgress
	decode(t, h.do("GET", base+"/suites/brain/progress", nil), &prog)
	if prog.CurrentDay != 1 || prog.Stats.Experience != 210 || prog.Level != "Novice" {
		t.Fatalf("unexpected progress %+v", prog)
	}

	if rec := h.do("POST", base+"/checklist/0", nil); rec.Code != http.StatusOK {
		t.Fatalf("toggle: %d %s", rec.Code, rec.Body)
	}
	if rec := h.do("POST", base+"/checklist/nine", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var view app.ChecklistView
	decode(t, h.do("GET", base+"/checklist", nil), &view)
	if !view.Day.Laws[0] || view.Day.Completed {
		t.Fatalf("unexpected checklist %+v", view.Day)
	}
}

func TestReportIsHTML(t *testing.T) {
	h := newHarness(t)
	base := "/api/profiles/" + h.createProfile()
	h.do("POST", base+"/quiz", allSelections(3))

	if rec := h.do("GET", base+"/report", nil); rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402 before purchase, got %d", rec.Code)
	}
	rec := h.do("GET", base+"/report?activate=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report: %d %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "The Explorer") {
		t.Fatalf("report missing archetype")
	}
	if rec := h.do("GET", base+"/certificate/brain", nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unfinished program, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rec := h.do("GET", "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body)
	}
}
