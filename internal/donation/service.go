package donation

import (
	"context"
	"errors"
	"fmt"

	"donatebridge/internal/domain"
	"donatebridge/internal/infra"
	"donatebridge/internal/telegram"
)

// Callback-data prefixes attached to the operator's inline buttons. The rest
// of the token is the encoded request identifier.
const (
	ConfirmPrefix = "confirm_"
	RejectPrefix  = "reject_"
)

// Notifier is the slice of the messaging gateway the lifecycle needs.
type Notifier interface {
	SendMessage(ctx context.Context, chatID, text string, markup *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error
}

// Service sequences the donation request lifecycle: a request is created and
// announced to the operator, then consumed exactly once by a confirm or a
// reject. The request itself is never stored; its identifier carries all of
// its state, and a claim row in the ledger store makes the terminal
// transition single-shot.
type Service struct {
	ledger      domain.Ledger
	notifier    Notifier
	adminChatID string
	logger      infra.Logger
}

// NewService wires the lifecycle to its collaborators. adminChatID is the
// operator channel new requests are announced on and the fallback reply
// channel.
func NewService(ledger domain.Ledger, notifier Notifier, adminChatID string, logger infra.Logger) *Service {
	return &Service{
		ledger:      ledger,
		notifier:    notifier,
		adminChatID: adminChatID,
		logger:      logger,
	}
}

// Create validates a submitted request, encodes its identifier and notifies
// the operator with confirm/reject buttons. The ledger is untouched until the
// operator acts.
func (s *Service) Create(ctx context.Context, handle string, amount, createdAt int64) (string, error) {
	req := domain.DonationRequest{PlayerHandle: handle, Amount: amount, CreatedAt: createdAt}
	if err := req.Validate(); err != nil {
		return "", err
	}

	id := req.ID()
	markup := &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{{
		{Text: "✅ Paid", CallbackData: ConfirmPrefix + id},
		{Text: "❌ Not paid", CallbackData: RejectPrefix + id},
	}}}
	if err := s.notifier.SendMessage(ctx, s.adminChatID, newRequestMessage(handle, amount, id), markup); err != nil {
		return "", fmt.Errorf("notify operator: %w", err)
	}

	s.logger.Info().Str("request_id", id).Int64("amount", amount).Msg("donation request created")
	return id, nil
}

// Confirm credits the decoded amount to the player's balance, acknowledges
// the operator's button press and reports the credit on the reply channel. A
// request already consumed by an earlier confirm or reject is only
// acknowledged; the balance is not touched again.
func (s *Service) Confirm(ctx context.Context, callbackID, requestID, replyChatID string) error {
	handle, amount, err := domain.DecodeRequestID(requestID)
	if err != nil {
		return err
	}

	claimed, err := s.ledger.ClaimRequest(ctx, requestID, domain.StatusConfirmed)
	if err != nil {
		s.acknowledge(ctx, callbackID, ackFailedText)
		return fmt.Errorf("claim request: %w", err)
	}
	if !claimed {
		s.acknowledge(ctx, callbackID, ackAlreadyProcessedText)
		s.logger.Warn().Str("request_id", requestID).Msg("duplicate confirm ignored")
		return nil
	}

	rows, err := s.ledger.AddBalance(ctx, handle, amount)
	if err != nil {
		s.acknowledge(ctx, callbackID, ackFailedText)
		s.releaseClaim(ctx, requestID)
		return fmt.Errorf("credit balance: %w", err)
	}
	if rows == 0 {
		// The handle has no ledger row; a silent success here would
		// leave the operator believing the credit happened.
		s.acknowledge(ctx, callbackID, ackPlayerMissingText)
		s.releaseClaim(ctx, requestID)
		if nerr := s.notifier.SendMessage(ctx, s.replyChat(replyChatID), playerNotFoundMessage(handle), nil); nerr != nil {
			s.logger.Error().Err(nerr).Str("request_id", requestID).Msg("failed to report missing player")
		}
		return fmt.Errorf("credit balance for %q: %w", handle, domain.ErrNotFound)
	}

	s.acknowledge(ctx, callbackID, ackConfirmedText)
	s.logger.Info().Str("request_id", requestID).Int64("amount", amount).Msg("donation confirmed")
	if err := s.notifier.SendMessage(ctx, s.replyChat(replyChatID), confirmedMessage(handle, amount), nil); err != nil {
		return fmt.Errorf("send confirmation report: %w", err)
	}
	return nil
}

// Reject consumes the request without touching the balance, acknowledges the
// button press and reports the rejection on the reply channel.
func (s *Service) Reject(ctx context.Context, callbackID, requestID, replyChatID string) error {
	handle, amount, err := domain.DecodeRequestID(requestID)
	if err != nil {
		return err
	}

	claimed, err := s.ledger.ClaimRequest(ctx, requestID, domain.StatusRejected)
	if err != nil {
		s.acknowledge(ctx, callbackID, ackFailedText)
		return fmt.Errorf("claim request: %w", err)
	}
	if !claimed {
		s.acknowledge(ctx, callbackID, ackAlreadyProcessedText)
		s.logger.Warn().Str("request_id", requestID).Msg("duplicate reject ignored")
		return nil
	}

	s.acknowledge(ctx, callbackID, ackRejectedText)
	s.logger.Info().Str("request_id", requestID).Msg("donation rejected")
	if err := s.notifier.SendMessage(ctx, s.replyChat(replyChatID), rejectedMessage(handle, amount), nil); err != nil {
		return fmt.Errorf("send rejection report: %w", err)
	}
	return nil
}

// LookupBalance reports a player's stored balance on the reply channel. An
// unknown handle is a normal outcome with its own message, not an error.
func (s *Service) LookupBalance(ctx context.Context, replyChatID, handle string) error {
	if handle == "" {
		return s.notifier.SendMessage(ctx, s.replyChat(replyChatID), balanceUsageText, nil)
	}

	balance, err := s.ledger.GetBalance(ctx, handle)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.notifier.SendMessage(ctx, s.replyChat(replyChatID), balanceNotFoundMessage(handle), nil)
		}
		return fmt.Errorf("lookup balance: %w", err)
	}
	return s.notifier.SendMessage(ctx, s.replyChat(replyChatID), telegram.FormatBalanceReport(handle, balance), nil)
}

func (s *Service) replyChat(chatID string) string {
	if chatID == "" {
		return s.adminChatID
	}
	return chatID
}

// acknowledge answers a pending button press, best-effort. The press may
// already be stale, so a failure is logged and swallowed.
func (s *Service) acknowledge(ctx context.Context, callbackID, text string) {
	if callbackID == "" {
		return
	}
	if err := s.notifier.AnswerCallbackQuery(ctx, callbackID, text); err != nil {
		s.logger.Warn().Err(err).Msg("failed to answer callback query")
	}
}

func (s *Service) releaseClaim(ctx context.Context, requestID string) {
	if err := s.ledger.ReleaseClaim(ctx, requestID); err != nil {
		s.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to release claim")
	}
}
