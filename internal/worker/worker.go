package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"paygram/internal/event"
	"paygram/internal/notifier"
	"paygram/internal/service/identity"
	"paygram/internal/service/mq"
	"paygram/pkg/logger"
)

// NotificationWorker consumes payment and request events and pushes chat
// notifications. Delivery is best effort: a failed push is logged and the
// message is still acknowledged, events are never replayed for it.
type NotificationWorker struct {
	consumer mq.Consumer
	users    *identity.Service
	notify   notifier.Notifier
}

func NewNotificationWorker(consumer mq.Consumer, users *identity.Service, n notifier.Notifier) *NotificationWorker {
	return &NotificationWorker{consumer: consumer, users: users, notify: n}
}

// Start subscribes to both topics. The consumer loops run in the background
// until ctx ends.
func (w *NotificationWorker) Start(ctx context.Context) error {
	if err := w.consumer.Subscribe(ctx, event.TopicPayments, w.handlePayment); err != nil {
		return err
	}
	return w.consumer.Subscribe(ctx, event.TopicRequests, w.handleRequest)
}

func (w *NotificationWorker) handlePayment(msg *mq.Message) error {
	var ev event.PaymentEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		logger.Error("bad payment event payload", zap.String("message_id", msg.ID), zap.Error(err))
		return nil
	}

	var recipient, text string
	switch ev.Type {
	case event.TypePaymentCompleted:
		recipient = ev.ToUsername
		text = fmt.Sprintf("💸 *%s* sent you %s %s", ev.FromUsername, ev.Amount, ev.Token)
		if ev.Note != "" {
			text += fmt.Sprintf("\n_%s_", ev.Note)
		}
	case event.TypePaymentFailed:
		recipient = ev.FromUsername
		text = fmt.Sprintf("⚠️ Your payment of %s %s to *%s* failed", ev.Amount, ev.Token, ev.ToUsername)
	default:
		return nil
	}

	w.push(recipient, text)
	return nil
}

func (w *NotificationWorker) handleRequest(msg *mq.Message) error {
	var ev event.RequestEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		logger.Error("bad request event payload", zap.String("message_id", msg.ID), zap.Error(err))
		return nil
	}

	var recipient, text string
	switch {
	case ev.Type == event.TypeRequestCreated:
		recipient = ev.ToUsername
		text = fmt.Sprintf("🧾 *%s* requests %s from you", ev.FromUsername, ev.Amount)
		if ev.Note != "" {
			text += fmt.Sprintf("\n_%s_", ev.Note)
		}
	case ev.Type == event.TypeRequestUpdated && ev.Status == "paid":
		recipient = ev.FromUsername
		text = fmt.Sprintf("✅ *%s* paid your request for %s", ev.ToUsername, ev.Amount)
	case ev.Type == event.TypeRequestUpdated && ev.Status == "declined":
		recipient = ev.FromUsername
		text = fmt.Sprintf("❌ *%s* declined your request for %s", ev.ToUsername, ev.Amount)
	case ev.Type == event.TypeRequestUpdated && ev.Status == "cancelled":
		recipient = ev.ToUsername
		text = fmt.Sprintf("🚫 *%s* cancelled their request for %s", ev.FromUsername, ev.Amount)
	default:
		return nil
	}

	w.push(recipient, text)
	return nil
}

// push resolves the username to a chat id and delivers. All failures are
// logged and swallowed.
func (w *NotificationWorker) push(username, text string) {
	if username == "" {
		return
	}

	ctx := context.Background()
	user, err := w.users.LookupByUsername(ctx, username)
	if err != nil {
		logger.Warn("notification recipient not found", zap.String("username", username), zap.Error(err))
		return
	}

	if err := w.notify.Notify(ctx, user.ExternalID, text); err != nil {
		logger.Warn("notification delivery failed",
			zap.String("username", username),
			zap.Int64("chat_id", user.ExternalID),
			zap.Error(err))
	}
}
