package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/controlpanel/internal/common"
	"github.com/dmitrijs2005/controlpanel/internal/server/models"
	"github.com/dmitrijs2005/controlpanel/internal/server/services"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type accountResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type layoutRequest struct {
	Widgets []models.Widget `json:"widgets"`
}

type layoutResponse struct {
	Widgets   []models.Widget `json:"widgets"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type healthSummary struct {
	RestingHR         *int       `json:"resting_hr"`
	AverageSleepHours *int       `json:"average_sleep_hours"`
	TrainingLoad      *int       `json:"training_load"`
	Notes             *string    `json:"notes"`
	LastSyncAt        *time.Time `json:"last_sync_at"`
}

func toTokenResponse(t *services.Token) tokenResponse {
	return tokenResponse{AccessToken: t.AccessToken, TokenType: t.TokenType, ExpiresIn: int64(t.ExpiresIn / time.Second)}
}

func toHealthSummary(s *models.HealthSummary) healthSummary {
	return healthSummary{
		RestingHR:         s.RestingHR,
		AverageSleepHours: s.AverageSleepHours,
		TrainingLoad:      s.TrainingLoad,
		Notes:             s.Notes,
		LastSyncAt:        s.LastSyncAt,
	}
}

func (a *API) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": a.opts.AppName, "status": "ok"})
}

func (a *API) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":       "ok",
		"environment":  a.opts.Environment,
		"api_base_url": a.opts.APIBaseURL,
	})
}

func (a *API) signup(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeJSON(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}

	tok, err := a.auth.Signup(r.Context(), in.Email, in.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.metrics.TokensIssued.WithLabelValues("signup").Inc()
	writeJSON(w, http.StatusCreated, toTokenResponse(tok))
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeJSON(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}

	tok, err := a.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.metrics.TokensIssued.WithLabelValues("login").Inc()
	writeJSON(w, http.StatusOK, toTokenResponse(tok))
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	account, ok := AccountFrom(r.Context())
	if !ok {
		a.writeError(w, r, common.ErrorUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{ID: account.ID, Email: account.Email, CreatedAt: account.CreatedAt})
}

func (a *API) getLayout(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFrom(r.Context())

	l, err := a.widgets.GetLayout(r.Context(), account.ID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Widgets: l.Widgets, UpdatedAt: l.UpdatedAt})
}

func (a *API) saveLayout(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFrom(r.Context())

	var in layoutRequest
	if err := decodeJSON(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}

	l, err := a.widgets.SaveLayout(r.Context(), account.ID, in.Widgets)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Widgets: l.Widgets, UpdatedAt: l.UpdatedAt})
}

func (a *API) getSummary(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFrom(r.Context())

	s, err := a.health.GetSummary(r.Context(), account.ID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHealthSummary(s))
}

func (a *API) saveSummary(w http.ResponseWriter, r *http.Request) {
	account, _ := AccountFrom(r.Context())

	var in healthSummary
	if err := decodeJSON(w, r, &in); err != nil {
		a.writeError(w, r, err)
		return
	}

	s, err := a.health.SaveSummary(r.Context(), account.ID, &models.HealthSummary{
		RestingHR:         in.RestingHR,
		AverageSleepHours: in.AverageSleepHours,
		TrainingLoad:      in.TrainingLoad,
		Notes:             in.Notes,
		LastSyncAt:        in.LastSyncAt,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHealthSummary(s))
}
