package feed

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
	"paygram/internal/service/ledger"
	"paygram/internal/service/reaction"
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

// seedTx creates a transaction through the ledger service and optionally
// finalizes it, so feed inputs carry real lifecycle state.
func seedTx(t *testing.T, db *gorm.DB, from, to, privacy string, finalize bool) *model.Transaction {
	t.Helper()
	svc := ledger.NewService(db)
	tx, err := svc.CreatePending(context.Background(), ledger.CreateInput{
		FromAddress:  "0x" + from,
		ToAddress:    "0x" + to,
		FromUsername: from,
		ToUsername:   to,
		Amount:       decimal.NewFromInt(5),
		Privacy:      privacy,
	})
	require.NoError(t, err)
	if finalize {
		tx, _, err = svc.Finalize(context.Background(), tx.ID, fmt.Sprintf("0xhash%d", tx.ID))
		require.NoError(t, err)
	}
	return tx
}

func TestComposeFiltersStatusAndPrivacy(t *testing.T) {
	db := newTestDB(t)
	reactions := reaction.NewService(db)
	svc := NewService(db, reactions, nil)
	ctx := context.Background()

	visible := seedTx(t, db, "alice", "bob", model.PrivacyPublic, true)
	seedTx(t, db, "carol", "dan", model.PrivacyPublic, false)    // pending
	seedTx(t, db, "erin", "frank", model.PrivacyPrivate, true)   // private
	seedTx(t, db, "gus", "hana", model.PrivacyFriends, true)     // not public

	items, err := svc.Compose(ctx, "viewer", FilterAll, 50)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, visible.ID, items[0].ID)
}

func TestComposeAnnotatesReactions(t *testing.T) {
	db := newTestDB(t)
	reactions := reaction.NewService(db)
	svc := NewService(db, reactions, nil)
	ctx := context.Background()

	tx := seedTx(t, db, "alice", "bob", model.PrivacyPublic, true)

	require.NoError(t, reactions.Add(ctx, tx.ID, "bob", "🔥"))
	require.NoError(t, reactions.Add(ctx, tx.ID, "carol", "🔥"))
	require.NoError(t, reactions.Add(ctx, tx.ID, "carol", "🎉"))

	items, err := svc.Compose(ctx, "carol", FilterAll, 50)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.EqualValues(t, 2, items[0].Reactions["🔥"])
	assert.EqualValues(t, 1, items[0].Reactions["🎉"])
	assert.ElementsMatch(t, []string{"🔥", "🎉"}, items[0].ViewerReactions)
}

func TestComposeOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, reaction.NewService(db), nil)
	ctx := context.Background()

	var ids []uint64
	for i := 0; i < 3; i++ {
		tx := seedTx(t, db, "alice", "bob", model.PrivacyPublic, true)
		ids = append(ids, tx.ID)
	}

	items, err := svc.Compose(ctx, "viewer", FilterAll, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ids[2], items[0].ID) // newest first
	assert.Equal(t, ids[1], items[1].ID)
}

func TestComposeFriendsFilter(t *testing.T) {
	db := newTestDB(t)

	friends := map[string]bool{"bob": true}
	pred := func(viewer, other string) bool { return viewer == "alice" && friends[other] }
	svc := NewService(db, reaction.NewService(db), pred)
	ctx := context.Background()

	withFriend := seedTx(t, db, "bob", "carol", model.PrivacyPublic, true)
	seedTx(t, db, "dan", "erin", model.PrivacyPublic, true)

	items, err := svc.Compose(ctx, "alice", FilterFriends, 50)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, withFriend.ID, items[0].ID)

	// A viewer with no graph sees an empty friends feed.
	empty, err := svc.Compose(ctx, "zoe", FilterFriends, 50)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestComposeFriendsReachesOlderRows(t *testing.T) {
	db := newTestDB(t)

	friends := map[string]bool{"bob": true}
	pred := func(viewer, other string) bool { return viewer == "alice" && friends[other] }
	svc := NewService(db, reaction.NewService(db), pred)
	ctx := context.Background()

	// Friend activity first, then enough stranger activity to push it past a
	// full scan page. The friends feed must still surface the friend rows.
	var friendIDs []uint64
	for i := 0; i < 3; i++ {
		tx := seedTx(t, db, "bob", "carol", model.PrivacyPublic, true)
		friendIDs = append(friendIDs, tx.ID)
	}
	for i := 0; i < feedScanPage+5; i++ {
		seedTx(t, db, "dan", "erin", model.PrivacyPublic, true)
	}

	items, err := svc.Compose(ctx, "alice", FilterFriends, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, friendIDs[2], items[0].ID) // newest friend row first
	assert.Equal(t, friendIDs[1], items[1].ID)

	all, err := svc.Compose(ctx, "alice", FilterFriends, 50)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
