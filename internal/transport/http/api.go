package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"archetype-quiz-service/internal/app"
	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// API serves the REST surface over the app services.
type API struct {
	svc *app.Services
}

func NewAPI(svc *app.Services) *API {
	return &API{svc: svc}
}

type errorPayload struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("response write failed", zap.Error(err))
	}
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrIncompleteQuiz),
		errors.Is(err, domain.ErrOptionNotFound),
		errors.Is(err, domain.ErrUnknownLaw):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrUnknownProduct),
		errors.Is(err, domain.ErrUnknownSuite),
		errors.Is(err, domain.ErrNoDelivery):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLocked):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrConfirmTooEarly):
		return http.StatusTooEarly
	case errors.Is(err, domain.ErrNotEnrolled),
		errors.Is(err, domain.ErrNoArchetype),
		errors.Is(err, domain.ErrCertificateUnavailable),
		errors.Is(err, domain.ErrPlayInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

func (a *API) quiz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, content.Questions())
}

func (a *API) createProfile(w http.ResponseWriter, r *http.Request) {
	p, err := a.svc.Profiles.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var sub domain.QuizSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid quiz payload"})
		return
	}
	out, err := a.svc.Assessment.Submit(r.Context(), profileID(r), sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) result(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Assessment.Result(r.Context(), profileID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) unlocks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.svc.Unlocks.State(r.Context(), profileID(r)))
}

type purchaseLink struct {
	Product domain.Product `json:"product"`
	URL     string         `json:"url"`
}

func (a *API) beginPurchase(w http.ResponseWriter, r *http.Request) {
	product := domain.Product(mux.Vars(r)["product"])
	url, err := a.svc.Unlocks.BeginPurchase(r.Context(), profileID(r), product)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchaseLink{Product: product, URL: url})
}

func (a *API) completePurchase(w http.ResponseWriter, r *http.Request) {
	product := domain.Product(mux.Vars(r)["product"])
	rec, err := a.svc.Unlocks.CompletePurchase(r.Context(), profileID(r), product)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) confirmDelivery(w http.ResponseWriter, r *http.Request) {
	rec, err := a.svc.Unlocks.ConfirmDelivery(r.Context(), profileID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) enroll(w http.ResponseWriter, r *http.Request) {
	prog, err := a.svc.Tracker.Enroll(r.Context(), profileID(r), suiteID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prog)
}

type suiteProgress struct {
	domain.Progress
	Stats domain.SuiteStats `json:"stats"`
	Level string            `json:"level"`
}

func (a *API) progress(w http.ResponseWriter, r *http.Request) {
	id, suite := profileID(r), suiteID(r)
	prog, err := a.svc.Tracker.Progress(r.Context(), id, suite)
	if err != nil {
		writeError(w, err)
		return
	}
	stats := a.svc.Training.Stats(r.Context(), id, suite)
	writeJSON(w, http.StatusOK, suiteProgress{Progress: prog, Stats: stats, Level: levelName(stats.Experience)})
}

type completeRequest struct {
	Results []domain.ChallengeResult `json:"results"`
}

func (a *API) completeSuite(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid results payload"})
		return
	}
	out, err := a.svc.Training.CompleteSuite(r.Context(), profileID(r), suiteID(r), req.Results)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) checklist(w http.ResponseWriter, r *http.Request) {
	view, err := a.svc.Checklist.Today(r.Context(), profileID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) toggleLaw(w http.ResponseWriter, r *http.Request) {
	law, err := strconv.Atoi(mux.Vars(r)["law"])
	if err != nil {
		writeError(w, domain.ErrUnknownLaw)
		return
	}
	view, err := a.svc.Checklist.Toggle(r.Context(), profileID(r), law)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) report(w http.ResponseWriter, r *http.Request) {
	body, err := a.svc.Export.Report(r.Context(), profileID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeHTML(w, body)
}

func (a *API) certificate(w http.ResponseWriter, r *http.Request) {
	body, err := a.svc.Export.Certificate(r.Context(), profileID(r), suiteID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeHTML(w, body)
}

func profileID(r *http.Request) string { return mux.Vars(r)["id"] }

func suiteID(r *http.Request) domain.SuiteID { return domain.SuiteID(mux.Vars(r)["suite"]) }
