package handlers

import (
	"encoding/json"
	"net/http"
)

// Inbound actions the donation page posts to /donate.
const (
	actionCreateRequest  = "create_request"
	actionConfirmPayment = "confirm_payment"
	actionRejectPayment  = "reject_payment"
)

type donateActionRequest struct {
	Action          string `json:"action"`
	Nickname        string `json:"nickname"`
	Amount          int64  `json:"amount"`
	Timestamp       int64  `json:"timestamp"`
	RequestID       string `json:"request_id"`
	CallbackQueryID string `json:"callback_query_id"`
	ReplyChatID     string `json:"reply_chat_id"`
}

// DonateAction dispatches the donation page's webhook. Every action flows
// through the same lifecycle service the Telegram webhook uses.
func (a *App) DonateAction(w http.ResponseWriter, r *http.Request) {
	var req donateActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	switch req.Action {
	case actionCreateRequest:
		id, err := a.Donations.Create(r.Context(), req.Nickname, req.Amount, req.Timestamp)
		if err != nil {
			a.serviceError(w, err)
			return
		}
		a.json(w, http.StatusOK, map[string]any{"success": true, "request_id": id})
	case actionConfirmPayment:
		if err := a.Donations.Confirm(r.Context(), req.CallbackQueryID, req.RequestID, req.ReplyChatID); err != nil {
			a.serviceError(w, err)
			return
		}
		a.json(w, http.StatusOK, map[string]any{"success": true})
	case actionRejectPayment:
		if err := a.Donations.Reject(r.Context(), req.CallbackQueryID, req.RequestID, req.ReplyChatID); err != nil {
			a.serviceError(w, err)
			return
		}
		a.json(w, http.StatusOK, map[string]any{"success": true})
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "unknown action")
	}
}
