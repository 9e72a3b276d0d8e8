package event

// Topics carried through the outbox and the message queue.
const (
	TopicPayments = "pay_events_payments"
	TopicRequests = "pay_events_requests"
)

// Event type discriminators.
const (
	TypePaymentCompleted = "payment.completed"
	TypePaymentFailed    = "payment.failed"
	TypeRequestCreated   = "request.created"
	TypeRequestUpdated   = "request.updated"
)

// PaymentEvent describes a ledger transaction reaching a terminal state.
// Topic: pay_events_payments, keyed by the recipient username.
type PaymentEvent struct {
	Type          string `json:"type"`
	TransactionID uint64 `json:"transaction_id"`
	FromUsername  string `json:"from_username,omitempty"`
	ToUsername    string `json:"to_username,omitempty"`
	Amount        string `json:"amount"` // decimal string
	Token         string `json:"token"`
	TxHash        string `json:"tx_hash,omitempty"`
	Note          string `json:"note,omitempty"`
}

// RequestEvent describes a payment-request lifecycle change.
// Topic: pay_events_requests, keyed by the notified party.
type RequestEvent struct {
	Type         string `json:"type"`
	RequestID    uint64 `json:"request_id"`
	FromUsername string `json:"from_username"`
	ToUsername   string `json:"to_username"`
	Amount       string `json:"amount"` // decimal string
	Status       string `json:"status"`
	Note         string `json:"note,omitempty"`
}
