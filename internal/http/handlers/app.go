package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"donatebridge/internal/domain"
	"donatebridge/internal/infra"
)

// DonationService is the lifecycle surface the handlers drive.
type DonationService interface {
	Create(ctx context.Context, handle string, amount, createdAt int64) (string, error)
	Confirm(ctx context.Context, callbackID, requestID, replyChatID string) error
	Reject(ctx context.Context, callbackID, requestID, replyChatID string) error
	LookupBalance(ctx context.Context, replyChatID, handle string) error
}

// App bundles the handler dependencies.
type App struct {
	Donations DonationService
	Log       infra.Logger
}

func NewApp(donations DonationService, log infra.Logger) *App {
	return &App{Donations: donations, Log: log}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, msg string) {
	a.json(w, code, map[string]string{"error": kind, "message": msg})
}

// serviceError maps lifecycle errors onto the response contract: local
// validation/decode problems are the caller's fault, everything else is a
// downstream failure.
func (a *App) serviceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var derr *domain.DecodeError
	switch {
	case errors.As(err, &verr):
		a.error(w, http.StatusBadRequest, "bad_request", verr.Error())
	case errors.As(err, &derr):
		a.error(w, http.StatusBadRequest, "bad_request", derr.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusBadRequest, "bad_request", "player not found in the ledger")
	default:
		a.Log.Error().Err(err).Msg("donation request failed")
		a.error(w, http.StatusInternalServerError, "internal", "request failed")
	}
}
