package donation

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"donatebridge/internal/domain"
	"donatebridge/internal/telegram"
)

type sentMessage struct {
	chatID string
	text   string
	markup *telegram.InlineKeyboardMarkup
}

type answeredCallback struct {
	id   string
	text string
}

type fakeNotifier struct {
	sendErr   error
	answerErr error
	sent      []sentMessage
	answered  []answeredCallback
}

func (f *fakeNotifier) SendMessage(_ context.Context, chatID, text string, markup *telegram.InlineKeyboardMarkup) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, markup: markup})
	return nil
}

func (f *fakeNotifier) AnswerCallbackQuery(_ context.Context, id, text string) error {
	if f.answerErr != nil {
		return f.answerErr
	}
	f.answered = append(f.answered, answeredCallback{id: id, text: text})
	return nil
}

type creditCall struct {
	handle string
	delta  int64
}

type fakeLedger struct {
	balances map[string]int64
	claims   map[string]string

	claimErr  error
	creditErr error
	credits   []creditCall
	releases  []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: map[string]int64{}, claims: map[string]string{}}
}

func (f *fakeLedger) GetBalance(_ context.Context, handle string) (int64, error) {
	balance, ok := f.balances[handle]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return balance, nil
}

func (f *fakeLedger) AddBalance(_ context.Context, handle string, delta int64) (int64, error) {
	if f.creditErr != nil {
		return 0, f.creditErr
	}
	f.credits = append(f.credits, creditCall{handle: handle, delta: delta})
	if _, ok := f.balances[handle]; !ok {
		return 0, nil
	}
	f.balances[handle] += delta
	return 1, nil
}

func (f *fakeLedger) ClaimRequest(_ context.Context, requestID, status string) (bool, error) {
	if f.claimErr != nil {
		return false, f.claimErr
	}
	if _, ok := f.claims[requestID]; ok {
		return false, nil
	}
	f.claims[requestID] = status
	return true, nil
}

func (f *fakeLedger) ReleaseClaim(_ context.Context, requestID string) error {
	f.releases = append(f.releases, requestID)
	delete(f.claims, requestID)
	return nil
}

func newTestService(ledger *fakeLedger, notifier *fakeNotifier) *Service {
	return NewService(ledger, notifier, "admin-chat", zerolog.New(io.Discard))
}

func TestCreateNotifiesOperatorWithButtons(t *testing.T) {
	ledger := newFakeLedger()
	notifier := &fakeNotifier{}
	svc := newTestService(ledger, notifier)

	id, err := svc.Create(context.Background(), "Alex_007", 500, 1700000000)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "Alex_007_500_1700000000" {
		t.Fatalf("id = %q", id)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.sent))
	}
	msg := notifier.sent[0]
	if msg.chatID != "admin-chat" {
		t.Fatalf("chat = %q, want admin-chat", msg.chatID)
	}
	if !strings.Contains(msg.text, "Alex_007") || !strings.Contains(msg.text, "500") {
		t.Fatalf("notification text = %q", msg.text)
	}
	if msg.markup == nil || len(msg.markup.InlineKeyboard) != 1 || len(msg.markup.InlineKeyboard[0]) != 2 {
		t.Fatalf("markup = %+v", msg.markup)
	}
	buttons := msg.markup.InlineKeyboard[0]
	if buttons[0].CallbackData != "confirm_"+id || buttons[1].CallbackData != "reject_"+id {
		t.Fatalf("callback data = %q / %q", buttons[0].CallbackData, buttons[1].CallbackData)
	}
}

func TestCreateRejectsInvalidInputWithoutNotifying(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeLedger(), notifier)

	var verr *domain.ValidationError
	if _, err := svc.Create(context.Background(), "", 500, 1); !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, err := svc.Create(context.Background(), "Nick", 0, 1); !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, err := svc.Create(context.Background(), "Nick", -10, 1); !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("gateway must not be called on validation failure, got %d calls", len(notifier.sent))
	}
}

func TestCreateSurfacesGatewayError(t *testing.T) {
	notifier := &fakeNotifier{sendErr: errors.New("telegram: sendMessage failed")}
	svc := newTestService(newFakeLedger(), notifier)

	if _, err := svc.Create(context.Background(), "Nick", 100, 1); err == nil {
		t.Fatal("expected gateway error")
	}
}

func TestConfirmCreditsDecodedAmountOnce(t *testing.T) {
	ledger := newFakeLedger()
	ledger.balances["Alex_007"] = 1000
	notifier := &fakeNotifier{}
	svc := newTestService(ledger, notifier)

	err := svc.Confirm(context.Background(), "cb-1", "Alex_007_500_1700000000", "reply-chat")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if len(ledger.credits) != 1 {
		t.Fatalf("expected exactly 1 credit, got %d", len(ledger.credits))
	}
	if ledger.credits[0].handle != "Alex_007" || ledger.credits[0].delta != 500 {
		t.Fatalf("credit = %+v", ledger.credits[0])
	}
	if ledger.balances["Alex_007"] != 1500 {
		t.Fatalf("balance = %d, want 1500", ledger.balances["Alex_007"])
	}

	if len(notifier.answered) != 1 || notifier.answered[0].id != "cb-1" {
		t.Fatalf("answered = %+v", notifier.answered)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 report, got %d", len(notifier.sent))
	}
	report := notifier.sent[0]
	if report.chatID != "reply-chat" || !strings.Contains(report.text, "500") {
		t.Fatalf("report = %+v", report)
	}
}

func TestConfirmIsSingleShot(t *testing.T) {
	ledger := newFakeLedger()
	ledger.balances["Nick"] = 0
	notifier := &fakeNotifier{}
	svc := newTestService(ledger, notifier)

	id := domain.EncodeRequestID("Nick", 300, 1700000000)
	if err := svc.Confirm(context.Background(), "cb-1", id, ""); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if err := svc.Confirm(context.Background(), "cb-2", id, ""); err != nil {
		t.Fatalf("second confirm: %v", err)
	}

	if len(ledger.credits) != 1 {
		t.Fatalf("second confirm must not credit again, got %d credits", len(ledger.credits))
	}
	if ledger.balances["Nick"] != 300 {
		t.Fatalf("balance = %d, want 300", ledger.balances["Nick"])
	}
	last := notifier.answered[len(notifier.answered)-1]
	if last.id != "cb-2" || last.text != ackAlreadyProcessedText {
		t.Fatalf("second ack = %+v", last)
	}
}

func TestConfirmAfterRejectDoesNotCredit(t *testing.T) {
	ledger := newFakeLedger()
	ledger.balances["Nick"] = 0
	notifier := &fakeNotifier{}
	svc := newTestService(ledger, notifier)

	id := domain.EncodeRequestID("Nick", 300, 1700000000)
	if err := svc.Reject(context.Background(), "cb-1", id, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := svc.Confirm(context.Background(), "cb-2", id, ""); err != nil {
		t.Fatalf("confirm after reject: %v", err)
	}
	if len(ledger.credits) != 0 {
		t.Fatalf("confirm after reject must not credit, got %d credits", len(ledger.credits))
	}
}

func TestConfirmRejectsMalformedIdentifier(t *testing.T) {
	ledger := newFakeLedger()
	notifier := &fakeNotifier{}
	svc := newTestService(ledger, notifier)

	var derr *domain.DecodeError
	if err := svc.Confirm(context.Background(), "cb-1", "garbage", ""); !errors.As(err, &derr) {
		t.Fatalf("err = %v, want DecodeError", err)
	}
	if len(ledger.credits) != 0 || len(ledger.claims) != 0 {
		t.Fatal("malformed id must not touch the ledger")
	}
}

func TestConfirmUnknownHandleReleasesClaimAndReports(t *testing.T) {
	ledger := newFakeLedger() // no balances: every credit matches zero rows
	notifier := &fakeNotifier{}
	svc := newTestService(ledger, notifier)

	id := domain.EncodeRequestID("Ghost", 500, 1700000000)
	err := svc.Confirm(context.Background(), "cb-1", id, "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if len(ledger.releases) != 1 || ledger.releases[0] != id {
		t.Fatalf("claim not released: %+v", ledger.releases)
	}
	if len(ledger.claims) != 0 {
		t.Fatal("claim should be gone so the request can be retried")
	}
	if len(notifier.sent) != 1 || !strings.Contains(notifier.sent[0].text, "not found") {
		t.Fatalf("operator report = %+v", notifier.sent)
	}
}

func TestConfirmStoreFailureStillAcknowledges(t *testing.T) {
	ledger := newFakeLedger()
	ledger.creditErr = errors.New("connection refused")
	notifier := &fakeNotifier{}
	svc := newTestService(ledger, notifier)

	id := domain.EncodeRequestID("Nick", 100, 1)
	if err := svc.Confirm(context.Background(), "cb-1", id, ""); err == nil {
		t.Fatal("expected store error")
	}
	if len(notifier.answered) != 1 || notifier.answered[0].text != ackFailedText {
		t.Fatalf("answered = %+v", notifier.answered)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("no report expected on store failure, got %+v", notifier.sent)
	}
}

func TestRejectSkipsLedgerAndReports(t *testing.T) {
	ledger := newFakeLedger()
	ledger.balances["Nick"] = 700
	notifier := &fakeNotifier{}
	svc := newTestService(ledger, notifier)

	id := domain.EncodeRequestID("Nick", 300, 1700000000)
	if err := svc.Reject(context.Background(), "cb-1", id, "reply-chat"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if len(ledger.credits) != 0 {
		t.Fatalf("reject must not credit, got %d credits", len(ledger.credits))
	}
	if ledger.balances["Nick"] != 700 {
		t.Fatalf("balance changed to %d", ledger.balances["Nick"])
	}
	if len(notifier.sent) != 1 || !strings.Contains(notifier.sent[0].text, "rejected") {
		t.Fatalf("report = %+v", notifier.sent)
	}
	if ledger.claims[id] != domain.StatusRejected {
		t.Fatalf("claim status = %q", ledger.claims[id])
	}
}

func TestLookupBalanceReportsStoredAmount(t *testing.T) {
	ledger := newFakeLedger()
	ledger.balances["Nick"] = 1250
	notifier := &fakeNotifier{}
	svc := newTestService(ledger, notifier)

	if err := svc.LookupBalance(context.Background(), "chat-9", "Nick"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(notifier.sent))
	}
	reply := notifier.sent[0]
	if reply.chatID != "chat-9" || !strings.Contains(reply.text, "1,250") {
		t.Fatalf("reply = %+v", reply)
	}
}

func TestLookupBalanceUnknownHandleUsesNotFoundPath(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeLedger(), notifier)

	if err := svc.LookupBalance(context.Background(), "chat-9", "Ghost"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(notifier.sent))
	}
	text := notifier.sent[0].text
	if !strings.Contains(text, "not found") || !strings.Contains(text, "Ghost") {
		t.Fatalf("reply = %q", text)
	}
	if strings.ContainsAny(text, "0123456789") {
		t.Fatalf("not-found reply must not show a balance: %q", text)
	}
}

func TestLookupBalanceEmptyHandleSendsUsage(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeLedger(), notifier)

	if err := svc.LookupBalance(context.Background(), "chat-9", ""); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].text != balanceUsageText {
		t.Fatalf("reply = %+v", notifier.sent)
	}
}

func TestEmptyReplyChatFallsBackToAdminChannel(t *testing.T) {
	ledger := newFakeLedger()
	ledger.balances["Nick"] = 100
	notifier := &fakeNotifier{}
	svc := newTestService(ledger, notifier)

	id := domain.EncodeRequestID("Nick", 100, 1)
	if err := svc.Confirm(context.Background(), "cb-1", id, ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if notifier.sent[0].chatID != "admin-chat" {
		t.Fatalf("chat = %q, want admin-chat fallback", notifier.sent[0].chatID)
	}
}
