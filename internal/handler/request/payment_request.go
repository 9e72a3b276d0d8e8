package request

import "github.com/shopspring/decimal"

// SendPaymentRequest initiates a transfer between two usernames.
type SendPaymentRequest struct {
	FromUsername string          `json:"from_username" binding:"required"`
	ToUsername   string          `json:"to_username" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Note         string          `json:"note"`
	Privacy      string          `json:"privacy" binding:"omitempty,oneof=public friends private"`
}

// CreateTransactionRequest records a pending transfer whose settlement the
// client drives itself. Used by the two-phase create/submit flow.
type CreateTransactionRequest struct {
	FromAddress  string          `json:"from_address" binding:"required"`
	ToAddress    string          `json:"to_address" binding:"required"`
	FromUsername string          `json:"from_username"`
	ToUsername   string          `json:"to_username"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Token        string          `json:"token"`
	Note         string          `json:"note"`
	Privacy      string          `json:"privacy" binding:"omitempty,oneof=public friends private"`
}

// SubmitTransactionRequest finalizes a pending transfer with its settlement
// hash.
type SubmitTransactionRequest struct {
	TxHash string `json:"tx_hash" binding:"required"`
}

// CreatePaymentRequestRequest asks another user for money.
type CreatePaymentRequestRequest struct {
	FromUsername string          `json:"from_username" binding:"required"`
	ToUsername   string          `json:"to_username" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Note         string          `json:"note"`
}

// UpdatePaymentRequestRequest declines or cancels a pending request.
type UpdatePaymentRequestRequest struct {
	Status string `json:"status" binding:"required,oneof=declined cancelled"`
	Actor  string `json:"actor" binding:"required"`
}

// PayPaymentRequestRequest settles a pending request with a transfer.
type PayPaymentRequestRequest struct {
	Actor string `json:"actor" binding:"required"`
}

// SplitParticipantRequest is one share of a split bill.
type SplitParticipantRequest struct {
	Username string          `json:"username" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// SplitBillRequest fans a bill out into per-participant requests. Total is
// the bill amount as entered; shares are not reconciled against it.
type SplitBillRequest struct {
	Requester    string                    `json:"requester" binding:"required"`
	Total        decimal.Decimal           `json:"total" binding:"required"`
	Participants []SplitParticipantRequest `json:"participants" binding:"required,min=1,dive"`
	Note         string                    `json:"note"`
}

// AddReactionRequest attaches an emoji reaction to a transaction.
type AddReactionRequest struct {
	Username string `json:"username" binding:"required"`
	Emoji    string `json:"emoji" binding:"required"`
}
