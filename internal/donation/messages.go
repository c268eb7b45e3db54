package donation

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Short status texts shown inside the operator's button-press toast.
const (
	ackConfirmedText        = "✅ Payment confirmed, balance credited"
	ackRejectedText         = "❌ Payment rejected"
	ackAlreadyProcessedText = "Request already processed"
	ackFailedText           = "⚠️ Could not process the request, try again"
	ackPlayerMissingText    = "⚠️ Player not found in the ledger"

	balanceUsageText = "Usage: /balance <nickname>"
)

var printer = message.NewPrinter(language.English)

func newRequestMessage(handle string, amount int64, id string) string {
	return printer.Sprintf("🎮 New donation request\n\n👤 Player: %s\n💰 Amount: %d ₽\n🆔 Request: %s", handle, amount, id)
}

func confirmedMessage(handle string, amount int64) string {
	return printer.Sprintf("✅ Payment confirmed!\n\n👤 Player: %s\n💰 Credited: %d ₽", handle, amount)
}

func rejectedMessage(handle string, amount int64) string {
	return printer.Sprintf("❌ Payment rejected\n\n👤 Player: %s\n💰 Amount: %d ₽", handle, amount)
}

func playerNotFoundMessage(handle string) string {
	return fmt.Sprintf("⚠️ Player %q not found in the ledger, nothing was credited", handle)
}

func balanceNotFoundMessage(handle string) string {
	return fmt.Sprintf("🔍 Player %q not found", handle)
}
