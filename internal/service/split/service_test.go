package split

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
	"paygram/internal/service/request"
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

func TestSplitAllSent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(request.NewService(db))
	ctx := context.Background()

	res, err := svc.Split(ctx, "alice", decimal.NewFromInt(25), []Participant{
		{Username: "bob", Amount: decimal.NewFromInt(10)},
		{Username: "carol", Amount: decimal.NewFromInt(15)},
	}, "dinner")
	require.NoError(t, err)

	assert.Equal(t, StatusAllSent, res.Status)
	assert.Equal(t, 2, res.Sent)
	assert.Empty(t, res.Failed)
	require.Len(t, res.Requests, 2)
	assert.Equal(t, "bob", res.Requests[0].ToUsername)
	assert.Equal(t, "carol", res.Requests[1].ToUsername)

	var count int64
	require.NoError(t, db.Model(&model.PaymentRequest{}).Where("from_username = ?", "alice").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestSplitPartialFailureKeepsGoing(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(request.NewService(db))
	ctx := context.Background()

	res, err := svc.Split(ctx, "alice", decimal.NewFromInt(25), []Participant{
		{Username: "bob", Amount: decimal.NewFromInt(10)},
		{Username: "", Amount: decimal.NewFromInt(10)}, // normalizes to empty, rejected by the store
		{Username: "carol", Amount: decimal.NewFromInt(10)},
	}, "dinner")
	require.NoError(t, err)

	assert.Equal(t, StatusPartiallySent, res.Status)
	assert.Equal(t, 2, res.Sent)
	require.Len(t, res.Failed, 1)

	// The failing middle participant does not stop later ones.
	var usernames []string
	require.NoError(t, db.Model(&model.PaymentRequest{}).Order("id ASC").Pluck("to_username", &usernames).Error)
	assert.Equal(t, []string{"bob", "carol"}, usernames)
}

func TestSplitSkipsRequesterAndNonPositive(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(request.NewService(db))
	ctx := context.Background()

	res, err := svc.Split(ctx, "Alice", decimal.NewFromInt(7), []Participant{
		{Username: "alice", Amount: decimal.NewFromInt(10)},
		{Username: "bob", Amount: decimal.Zero},
		{Username: "carol", Amount: decimal.NewFromInt(-3)},
		{Username: "dan", Amount: decimal.NewFromInt(7)},
	}, "")
	require.NoError(t, err)

	// Skipped shares are neither sent nor failed.
	assert.Equal(t, StatusAllSent, res.Status)
	assert.Equal(t, 1, res.Sent)
	assert.Empty(t, res.Failed)
	require.Len(t, res.Requests, 1)
	assert.Equal(t, "dan", res.Requests[0].ToUsername)
}

func TestSplitDoesNotValidateTotal(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(request.NewService(db))
	ctx := context.Background()

	// Shares are per-participant amounts, not fractions of a checked total.
	res, err := svc.Split(ctx, "alice", decimal.NewFromInt(25), []Participant{
		{Username: "bob", Amount: decimal.RequireFromString("0.01")},
		{Username: "carol", Amount: decimal.RequireFromString("999999")},
	}, "uneven")
	require.NoError(t, err)
	assert.Equal(t, StatusAllSent, res.Status)
	assert.Equal(t, 2, res.Sent)
}

func TestSplitValidation(t *testing.T) {
	svc := NewService(request.NewService(newTestDB(t)))
	ctx := context.Background()

	_, err := svc.Split(ctx, "", decimal.NewFromInt(1), []Participant{{Username: "bob", Amount: decimal.NewFromInt(1)}}, "")
	assert.Error(t, err)

	_, err = svc.Split(ctx, "alice", decimal.NewFromInt(1), nil, "")
	assert.Error(t, err)
}
