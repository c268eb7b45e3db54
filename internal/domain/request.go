package domain

import (
	"strconv"
	"strings"
)

// Separator joins the fields of a request identifier. Player handles may
// contain it themselves, so decoding anchors on the two trailing numeric
// fields instead of splitting left to right.
const Separator = "_"

// Claim outcomes recorded per request identifier.
const (
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// DonationRequest is a player's claim to have paid. It is never persisted as
// a record; its whole state travels inside the encoded identifier attached to
// the operator's inline buttons.
type DonationRequest struct {
	PlayerHandle string
	Amount       int64
	CreatedAt    int64
}

// Validate checks the fields a player submits.
func (r DonationRequest) Validate() error {
	if strings.TrimSpace(r.PlayerHandle) == "" {
		return &ValidationError{Field: "nickname", Reason: "must not be empty"}
	}
	if r.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	return nil
}

// EncodeRequestID serializes a request into its compact identifier,
// "{handle}_{amount}_{timestamp}".
func EncodeRequestID(handle string, amount, createdAt int64) string {
	return handle + Separator + strconv.FormatInt(amount, 10) + Separator + strconv.FormatInt(createdAt, 10)
}

// ID returns the request's identifier.
func (r DonationRequest) ID() string {
	return EncodeRequestID(r.PlayerHandle, r.Amount, r.CreatedAt)
}

// DecodeRequestID parses an identifier back into its player handle and
// amount. The trailing field is the creation timestamp and the one before it
// the amount; everything in front of those, underscores included, is the
// handle.
func DecodeRequestID(id string) (handle string, amount int64, err error) {
	tsSep := strings.LastIndex(id, Separator)
	if tsSep < 0 {
		return "", 0, &DecodeError{ID: id, Reason: "missing separator"}
	}
	amountSep := strings.LastIndex(id[:tsSep], Separator)
	if amountSep <= 0 {
		return "", 0, &DecodeError{ID: id, Reason: "want handle, amount and timestamp fields"}
	}
	if _, perr := strconv.ParseInt(id[tsSep+1:], 10, 64); perr != nil {
		return "", 0, &DecodeError{ID: id, Reason: "timestamp is not an integer"}
	}
	amount, perr := strconv.ParseInt(id[amountSep+1:tsSep], 10, 64)
	if perr != nil {
		return "", 0, &DecodeError{ID: id, Reason: "amount is not an integer"}
	}
	if amount <= 0 {
		return "", 0, &DecodeError{ID: id, Reason: "amount must be positive"}
	}
	return id[:amountSep], amount, nil
}
