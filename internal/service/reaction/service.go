package reaction

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paygram/internal/model"
	"paygram/internal/service/identity"
	"paygram/pkg/errno"
)

// Service stores (transaction, user, emoji) tuples and aggregates them at
// read time. No counters are maintained.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Add records a reaction. The insert rides the unique index with
// ON CONFLICT DO NOTHING, so a double-tap is success, not an error and not a
// second row. This is the storage-level compare-and-insert the race between
// two identical concurrent reactions needs.
func (s *Service) Add(ctx context.Context, transactionID uint64, username, emoji string) error {
	username = identity.Normalize(username)
	if transactionID == 0 || username == "" || emoji == "" {
		return errno.ErrValidation.WithDetailf("transaction_id, username and emoji are required")
	}

	r := model.Reaction{
		TransactionID: transactionID,
		Username:      username,
		Emoji:         emoji,
	}

	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&r).Error; err != nil {
		return errno.ErrDatabase.WithDetailf("add reaction: %v", err)
	}
	return nil
}

// CountsFor aggregates reactions on one transaction: emoji -> count.
func (s *Service) CountsFor(ctx context.Context, transactionID uint64) (map[string]int64, error) {
	many, err := s.CountsForMany(ctx, []uint64{transactionID})
	if err != nil {
		return nil, err
	}
	counts, ok := many[transactionID]
	if !ok {
		return map[string]int64{}, nil
	}
	return counts, nil
}

type countRow struct {
	TransactionID uint64
	Emoji         string
	Count         int64
}

// CountsForMany aggregates reactions for a set of transactions in a single
// grouped query. This is the batch read the feed fan-out uses instead of one
// round-trip per transaction.
func (s *Service) CountsForMany(ctx context.Context, transactionIDs []uint64) (map[uint64]map[string]int64, error) {
	out := make(map[uint64]map[string]int64, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return out, nil
	}

	var rows []countRow
	if err := s.db.WithContext(ctx).
		Model(&model.Reaction{}).
		Select("transaction_id, emoji, COUNT(*) AS count").
		Where("transaction_id IN ?", transactionIDs).
		Group("transaction_id, emoji").
		Scan(&rows).Error; err != nil {
		return nil, errno.ErrDatabase.WithDetailf("count reactions: %v", err)
	}

	for _, row := range rows {
		counts, ok := out[row.TransactionID]
		if !ok {
			counts = make(map[string]int64)
			out[row.TransactionID] = counts
		}
		counts[row.Emoji] = row.Count
	}
	return out, nil
}

// ReactedBy returns the emojis username already used on one transaction.
func (s *Service) ReactedBy(ctx context.Context, transactionID uint64, username string) ([]string, error) {
	many, err := s.ReactedByMany(ctx, username, []uint64{transactionID})
	if err != nil {
		return nil, err
	}
	return many[transactionID], nil
}

// ReactedByMany returns, per transaction, the emojis the viewer already used.
// Single query over the id set.
func (s *Service) ReactedByMany(ctx context.Context, username string, transactionIDs []uint64) (map[uint64][]string, error) {
	out := make(map[uint64][]string, len(transactionIDs))
	username = identity.Normalize(username)
	if username == "" || len(transactionIDs) == 0 {
		return out, nil
	}

	var rows []model.Reaction
	if err := s.db.WithContext(ctx).
		Where("username = ? AND transaction_id IN ?", username, transactionIDs).
		Find(&rows).Error; err != nil {
		return nil, errno.ErrDatabase.WithDetailf("viewer reactions: %v", err)
	}

	for _, r := range rows {
		out[r.TransactionID] = append(out[r.TransactionID], r.Emoji)
	}
	return out, nil
}
