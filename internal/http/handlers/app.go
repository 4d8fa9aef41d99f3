package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog"

	"crowdfund/internal/auth"
	"crowdfund/internal/domain"
)

const maxBodyBytes = 1 << 20

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

// App carries the dependencies shared by every handler. It is built once at
// startup; handlers keep no state between requests.
type App struct {
	Campaigns domain.CampaignRepository
	Donations domain.DonationRepository
	Store     domain.Pinger
	Tokens    TokenIssuer
	Cookies   auth.Cookies
	Logger    zerolog.Logger
	Now       func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"message": msg})
}

// logger returns the request scoped logger installed by middleware.Logger,
// falling back to the app logger.
func (a *App) logger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}

// decode reads a JSON body into v. An empty body is an error; a body over
// maxBodyBytes is answered with 413.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return false
	}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		a.error(w, http.StatusRequestEntityTooLarge, "Payload Too Large")
		return false
	}
	a.error(w, http.StatusBadRequest, "invalid payload")
	return false
}

// storeError maps repository errors onto responses.
func (a *App) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		a.error(w, http.StatusBadRequest, "Invalid id")
	default:
		a.logger(r).Error().Err(err).Str("op", op).Msg("store operation failed")
		a.error(w, http.StatusInternalServerError, "internal server error")
	}
}

// timeStore records a Server-Timing metric around a store call.
func timeStore(r *http.Request, name string) func() {
	h := servertiming.FromContext(r.Context())
	if h == nil {
		return func() {}
	}
	m := h.NewMetric(name).Start()
	return func() { m.Stop() }
}
