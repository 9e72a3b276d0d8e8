package reaction

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"paygram/internal/model"
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

func TestAddIsIdempotent(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, 1, "alice", "🔥"))
	require.NoError(t, svc.Add(ctx, 1, "alice", "🔥")) // double tap

	counts, err := svc.CountsFor(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts["🔥"])
}

func TestConcurrentIdenticalReactions(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Add(ctx, 7, "alice", "💯"))
		}()
	}
	wg.Wait()

	counts, err := svc.CountsFor(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts["💯"])
}

func TestCountsAggregate(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, 1, "alice", "🔥"))
	require.NoError(t, svc.Add(ctx, 1, "bob", "🔥"))
	require.NoError(t, svc.Add(ctx, 1, "bob", "🎉"))
	require.NoError(t, svc.Add(ctx, 2, "carol", "🔥"))

	counts, err := svc.CountsFor(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts["🔥"])
	assert.EqualValues(t, 1, counts["🎉"])

	empty, err := svc.CountsFor(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCountsForMany(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, 1, "alice", "🔥"))
	require.NoError(t, svc.Add(ctx, 2, "alice", "🎉"))
	require.NoError(t, svc.Add(ctx, 3, "bob", "🔥"))

	many, err := svc.CountsForMany(ctx, []uint64{1, 2})
	require.NoError(t, err)
	assert.Len(t, many, 2)
	assert.EqualValues(t, 1, many[1]["🔥"])
	assert.EqualValues(t, 1, many[2]["🎉"])
	assert.NotContains(t, many, uint64(3))
}

func TestReactedBy(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, 1, "alice", "🔥"))
	require.NoError(t, svc.Add(ctx, 1, "alice", "🎉"))
	require.NoError(t, svc.Add(ctx, 1, "bob", "💯"))

	emojis, err := svc.ReactedBy(ctx, 1, "Alice") // normalized viewer
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"🔥", "🎉"}, emojis)

	byTx, err := svc.ReactedByMany(ctx, "bob", []uint64{1, 2})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"💯"}, byTx[1])
	assert.Empty(t, byTx[2])
}
