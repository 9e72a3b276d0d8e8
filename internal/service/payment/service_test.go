package payment

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"paygram/internal/model"
	"paygram/internal/service/identity"
	"paygram/internal/service/ledger"
	"paygram/internal/service/request"
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

// stubSigner returns a fixed hash or a fixed error and records its calls.
type stubSigner struct {
	hash  string
	err   error
	calls int
}

func (s *stubSigner) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.hash, nil
}

func newFixture(t *testing.T, signer Signer) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	users := identity.NewService(db)
	requests := request.NewService(db)
	svc := NewService(users, ledger.NewService(db), requests, signer)

	ctx := context.Background()
	_, _, err := users.ClaimUsername(ctx, 101, "alice", "0xA1")
	require.NoError(t, err)
	_, _, err = users.ClaimUsername(ctx, 102, "bob", "0xB2")
	require.NoError(t, err)
	return svc, db
}

func TestSendCompletes(t *testing.T) {
	signer := &stubSigner{hash: "0xabc123"}
	svc, _ := newFixture(t, signer)

	tx, err := svc.Send(context.Background(), SendInput{
		FromUsername: "alice",
		ToUsername:   "bob",
		Amount:       decimal.RequireFromString("12.50"),
		Note:         "lunch",
	})
	require.NoError(t, err)

	assert.Equal(t, model.TxStatusCompleted, tx.Status)
	assert.Equal(t, "0xabc123", tx.TxHash)
	assert.Equal(t, "0xA1", tx.FromAddress)
	assert.Equal(t, "0xB2", tx.ToAddress)
	assert.Equal(t, 1, signer.calls)
}

func TestSendSignerFailureRecordsFailed(t *testing.T) {
	signer := &stubSigner{err: errno.ErrExternalService.WithDetailf("rpc timeout")}
	svc, db := newFixture(t, signer)

	_, err := svc.Send(context.Background(), SendInput{
		FromUsername: "alice",
		ToUsername:   "bob",
		Amount:       decimal.NewFromInt(5),
	})
	require.Error(t, err)
	assert.True(t, errno.IsCode(err, errno.ErrExternalService))

	// The attempt is still on the ledger, marked failed.
	var tx model.Transaction
	require.NoError(t, db.First(&tx).Error)
	assert.Equal(t, model.TxStatusFailed, tx.Status)
	assert.Empty(t, tx.TxHash)
}

func TestSendUnknownRecipient(t *testing.T) {
	signer := &stubSigner{hash: "0xabc"}
	svc, db := newFixture(t, signer)

	_, err := svc.Send(context.Background(), SendInput{
		FromUsername: "alice",
		ToUsername:   "nobody",
		Amount:       decimal.NewFromInt(5),
	})
	assert.True(t, errno.IsCode(err, errno.ErrUserNotFound))
	assert.Zero(t, signer.calls)

	// No ledger row is written before both parties resolve.
	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendToSelf(t *testing.T) {
	svc, _ := newFixture(t, &stubSigner{hash: "0xabc"})

	_, err := svc.Send(context.Background(), SendInput{
		FromUsername: "alice",
		ToUsername:   "Alice",
		Amount:       decimal.NewFromInt(5),
	})
	assert.True(t, errno.IsCode(err, errno.ErrValidation))
}

func TestPayRequest(t *testing.T) {
	signer := &stubSigner{hash: "0xfeed"}
	svc, db := newFixture(t, signer)
	ctx := context.Background()

	requests := request.NewService(db)
	req, err := requests.Create(ctx, "alice", "bob", decimal.NewFromInt(20), "rent")
	require.NoError(t, err)

	tx, err := svc.PayRequest(ctx, req.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusCompleted, tx.Status)
	assert.Equal(t, "bob", tx.FromUsername)
	assert.Equal(t, "alice", tx.ToUsername)

	paid, err := requests.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPaid, paid.Status)
	require.NotNil(t, paid.TransactionID)
	assert.Equal(t, tx.ID, *paid.TransactionID)
}

func TestPayRequestWrongActor(t *testing.T) {
	signer := &stubSigner{hash: "0xfeed"}
	svc, db := newFixture(t, signer)
	ctx := context.Background()

	req, err := request.NewService(db).Create(ctx, "alice", "bob", decimal.NewFromInt(20), "")
	require.NoError(t, err)

	_, err = svc.PayRequest(ctx, req.ID, "alice")
	assert.True(t, errno.IsCode(err, errno.ErrPermissionDenied))
	assert.Zero(t, signer.calls)
}

func TestPayRequestClosed(t *testing.T) {
	signer := &stubSigner{hash: "0xfeed"}
	svc, db := newFixture(t, signer)
	ctx := context.Background()

	requests := request.NewService(db)
	req, err := requests.Create(ctx, "alice", "bob", decimal.NewFromInt(20), "")
	require.NoError(t, err)
	_, err = requests.Transition(ctx, req.ID, model.RequestStatusDeclined, "bob")
	require.NoError(t, err)

	_, err = svc.PayRequest(ctx, req.ID, "bob")
	assert.True(t, errno.IsCode(err, errno.ErrRequestClosed))
	assert.Zero(t, signer.calls)
}

func TestPayRequestFailedTransferLeavesRequestPending(t *testing.T) {
	signer := &stubSigner{err: errno.ErrExternalService.WithDetailf("out of gas")}
	svc, db := newFixture(t, signer)
	ctx := context.Background()

	requests := request.NewService(db)
	req, err := requests.Create(ctx, "alice", "bob", decimal.NewFromInt(20), "")
	require.NoError(t, err)

	_, err = svc.PayRequest(ctx, req.ID, "bob")
	require.Error(t, err)

	// A failed transfer must not close the request; the payer can retry.
	got, err := requests.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, got.Status)
}
