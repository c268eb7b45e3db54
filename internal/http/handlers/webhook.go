package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"donatebridge/internal/donation"
	"donatebridge/internal/telegram"
)

const balanceCommand = "/balance"

// TelegramWebhook handles Bot API updates: inline-button presses on donation
// notifications and the /balance chat command. Telegram redelivers anything
// that is not answered with a 200, so processing failures are logged and the
// update is still acknowledged.
func (a *App) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid update payload")
		return
	}

	switch {
	case update.CallbackQuery != nil:
		a.handleCallback(r.Context(), update.CallbackQuery)
	case update.Message != nil:
		a.handleCommand(r.Context(), update.Message)
	}

	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	replyChat := ""
	if cb.Message != nil {
		replyChat = strconv.FormatInt(cb.Message.Chat.ID, 10)
	}

	var err error
	switch {
	case strings.HasPrefix(cb.Data, donation.ConfirmPrefix):
		err = a.Donations.Confirm(ctx, cb.ID, strings.TrimPrefix(cb.Data, donation.ConfirmPrefix), replyChat)
	case strings.HasPrefix(cb.Data, donation.RejectPrefix):
		err = a.Donations.Reject(ctx, cb.ID, strings.TrimPrefix(cb.Data, donation.RejectPrefix), replyChat)
	default:
		a.Log.Warn().Str("data", cb.Data).Msg("unknown callback data")
		return
	}
	if err != nil {
		a.Log.Error().Err(err).Str("data", cb.Data).Msg("callback handling failed")
	}
}

func (a *App) handleCommand(ctx context.Context, msg *telegram.Message) {
	text := strings.TrimSpace(msg.Text)
	if text != balanceCommand && !strings.HasPrefix(text, balanceCommand+" ") {
		return
	}
	handle := strings.TrimSpace(strings.TrimPrefix(text, balanceCommand))
	replyChat := strconv.FormatInt(msg.Chat.ID, 10)
	if err := a.Donations.LookupBalance(ctx, replyChat, handle); err != nil {
		a.Log.Error().Err(err).Str("handle", handle).Msg("balance lookup failed")
	}
}
