package http

import (
	"net/http"
	"strconv"

	"archetype-quiz-service/internal/app"
	"archetype-quiz-service/internal/scoring"
	"github.com/gorilla/mux"
)

// NewRouter wires the REST API and the play socket.
func NewRouter(svc *app.Services, ws *WSHandler) *mux.Router {
	api := NewAPI(svc)
	r := mux.NewRouter()
	r.HandleFunc("/healthz", api.health).Methods("GET")
	r.HandleFunc("/api/quiz", api.quiz).Methods("GET")
	r.HandleFunc("/api/profiles", api.createProfile).Methods("POST")
	if ws != nil {
		r.HandleFunc("/ws/play", ws.ServePlay)
	}

	p := r.PathPrefix("/api/profiles/{id}").Subrouter()
	p.Use(api.profileMiddleware)
	p.HandleFunc("/quiz", api.submitQuiz).Methods("POST")
	p.HandleFunc("/result", api.result).Methods("GET")
	p.HandleFunc("/unlocks", api.unlocks).Methods("GET")
	p.HandleFunc("/purchases/{product}", api.beginPurchase).Methods("POST")
	p.HandleFunc("/purchases/{product}/complete", api.completePurchase).Methods("POST")
	p.HandleFunc("/delivery/confirm", api.confirmDelivery).Methods("POST")
	p.HandleFunc("/suites/{suite}/enroll", api.enroll).Methods("POST")
	p.HandleFunc("/suites/{suite}/progress", api.progress).Methods("GET")
	p.HandleFunc("/suites/{suite}/complete", api.completeSuite).Methods("POST")
	p.HandleFunc("/checklist", api.checklist).Methods("GET")
	p.HandleFunc("/checklist/{law}", api.toggleLaw).Methods("POST")
	p.HandleFunc("/report", api.report).Methods("GET")
	p.HandleFunc("/certificate/{suite}", api.certificate).Methods("GET")
	return r
}

// profileMiddleware rejects unknown profiles and honors the activation flag.
func (a *API) profileMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := profileID(r)
		if _, err := a.svc.Profiles.Get(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		if activationRequested(r) {
			if _, err := a.svc.Unlocks.Activate(r.Context(), id); err != nil {
				writeError(w, err)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func activationRequested(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("activate"))
	return ok
}

func levelName(xp int) string { return scoring.LevelFor(xp).Name }
