package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"paygram/internal/event"
	"paygram/internal/model"
	"paygram/pkg/errno"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

func createPending(t *testing.T, svc *Service, amount string) *model.Transaction {
	t.Helper()
	tx, err := svc.CreatePending(context.Background(), CreateInput{
		FromAddress:  "0xA1",
		ToAddress:    "0xB2",
		FromUsername: "alice",
		ToUsername:   "bob",
		Amount:       decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return tx
}

func TestCreatePendingDefaults(t *testing.T) {
	svc := NewService(newTestDB(t))

	tx := createPending(t, svc, "10.00")
	assert.Equal(t, model.TxStatusPending, tx.Status)
	assert.Equal(t, DefaultToken, tx.Token)
	assert.Equal(t, model.PrivacyPublic, tx.Privacy)
	assert.Empty(t, tx.TxHash)
	assert.True(t, DefaultFee.Equal(tx.Fee))
	assert.NotZero(t, tx.ID)
}

func TestCreatePendingValidation(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.CreatePending(ctx, CreateInput{ToAddress: "0xB2", Amount: decimal.NewFromInt(1)})
	assert.True(t, errno.IsCode(err, errno.ErrValidation))

	_, err = svc.CreatePending(ctx, CreateInput{FromAddress: "0xA1", ToAddress: "0xB2", Amount: decimal.Zero})
	assert.True(t, errno.IsCode(err, errno.ErrValidation))

	_, err = svc.CreatePending(ctx, CreateInput{FromAddress: "0xA1", ToAddress: "0xB2", Amount: decimal.NewFromInt(1), Privacy: "secret"})
	assert.True(t, errno.IsCode(err, errno.ErrValidation))
}

func TestFinalize(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	tx := createPending(t, svc, "10.00")

	got, applied, err := svc.Finalize(ctx, tx.ID, "0xdeadbeef")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, model.TxStatusCompleted, got.Status)
	assert.Equal(t, "0xdeadbeef", got.TxHash)

	// Same hash again: idempotent no-op returning the identical record.
	again, applied, err := svc.Finalize(ctx, tx.ID, "0xdeadbeef")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, got.ID, again.ID)
	assert.Equal(t, got.TxHash, again.TxHash)

	// Different hash: rejected, stored record untouched.
	_, _, err = svc.Finalize(ctx, tx.ID, "0xother")
	assert.True(t, errno.IsCode(err, errno.ErrTransactionFinalized))

	stored, err := svc.Get(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", stored.TxHash)
}

func TestFinalizeMissing(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, _, err := svc.Finalize(context.Background(), 9999, "0xdead")
	assert.True(t, errno.IsCode(err, errno.ErrTransactionNotFound))
}

func TestFinalizeWritesOutboxEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	tx := createPending(t, svc, "10.00")
	_, _, err := svc.Finalize(context.Background(), tx.ID, "0xdead")
	require.NoError(t, err)

	var msgs []model.OutboxMessage
	require.NoError(t, db.Find(&msgs).Error)
	require.Len(t, msgs, 1)
	assert.Equal(t, event.TopicPayments, msgs[0].Topic)
	assert.Equal(t, model.OutboxStatusPending, msgs[0].Status)
	assert.Contains(t, string(msgs[0].Payload), event.TypePaymentCompleted)
}

func TestFail(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	tx := createPending(t, svc, "10.00")

	got, err := svc.Fail(ctx, tx.ID, "transfer rejected")
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusFailed, got.Status)

	// Failed is terminal: no finalize, no second fail.
	_, _, err = svc.Finalize(ctx, tx.ID, "0xdead")
	assert.True(t, errno.IsCode(err, errno.ErrTransactionFinalized))
	_, err = svc.Fail(ctx, tx.ID, "again")
	assert.True(t, errno.IsCode(err, errno.ErrTransactionFinalized))
}

func TestListForAddress(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	sent := createPending(t, svc, "1.00")

	received, err := svc.CreatePending(ctx, CreateInput{
		FromAddress: "0xC3",
		ToAddress:   "0xA1",
		Amount:      decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	unrelated, err := svc.CreatePending(ctx, CreateInput{
		FromAddress: "0xD4",
		ToAddress:   "0xE5",
		Amount:      decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	txs, err := svc.ListForAddress(ctx, "0xA1", 50)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	ids := []uint64{txs[0].ID, txs[1].ID}
	assert.Contains(t, ids, sent.ID)
	assert.Contains(t, ids, received.ID)
	assert.NotContains(t, ids, unrelated.ID)

	// Newest first.
	assert.True(t, txs[0].ID > txs[1].ID)
}

func TestEndToEndTransferHistory(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	tx, err := svc.CreatePending(ctx, CreateInput{
		FromAddress:  "0xA1",
		ToAddress:    "0xB2",
		FromUsername: "alice",
		ToUsername:   "bob",
		Amount:       decimal.RequireFromString("10.00"),
		Token:        "USDC",
	})
	require.NoError(t, err)

	_, _, err = svc.Finalize(ctx, tx.ID, "0xdead")
	require.NoError(t, err)

	txs, err := svc.ListForAddress(ctx, "0xB2", 50)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, model.TxStatusCompleted, txs[0].Status)
	assert.True(t, decimal.RequireFromString("10.00").Equal(txs[0].Amount))
}

func TestFailStale(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	stale := createPending(t, svc, "1.00")
	fresh := createPending(t, svc, "2.00")

	// Age the first record past the cutoff.
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&model.Transaction{}).Where("id = ?", stale.ID).Update("created_at", old).Error)

	n, err := svc.FailStale(ctx, time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := svc.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusFailed, got.Status)

	got, err = svc.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusPending, got.Status)
}
