package feed

import (
	"context"
	"time"

	"gorm.io/gorm"

	"paygram/internal/model"
	"paygram/internal/service/identity"
	"paygram/internal/service/reaction"
	"paygram/pkg/errno"
)

// Filter selects which slice of the public stream the viewer sees.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterFriends Filter = "friends"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 100

	// Rows scanned per keyset page while hunting for qualifying items.
	feedScanPage = 100
)

// FriendPredicate reports whether other is in viewer's social graph. The
// graph itself lives outside this core; the composer only consumes the
// predicate.
type FriendPredicate func(viewer, other string) bool

// FeedItem is one completed public transaction annotated with its reaction
// aggregate and the viewer's own reactions.
type FeedItem struct {
	model.Transaction
	Reactions       map[string]int64 `json:"reactions"`
	ViewerReactions []string         `json:"viewer_reactions,omitempty"`
}

// Service joins the ledger with the reaction aggregator into the activity
// stream.
type Service struct {
	db        *gorm.DB
	reactions *reaction.Service
	isFriend  FriendPredicate
}

// NewService builds the composer. isFriend may be nil, in which case the
// friends filter yields an empty feed.
func NewService(db *gorm.DB, reactions *reaction.Service, isFriend FriendPredicate) *Service {
	if isFriend == nil {
		isFriend = func(string, string) bool { return false }
	}
	return &Service{db: db, reactions: reactions, isFriend: isFriend}
}

// Compose returns up to limit feed items for viewer, newest first. Only
// completed, public transactions qualify. Reaction annotations are fetched
// with two batched queries over the whole id set, not per item.
func (s *Service) Compose(ctx context.Context, viewer string, filter Filter, limit int) ([]FeedItem, error) {
	viewer = identity.Normalize(viewer)
	if limit <= 0 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}

	switch filter {
	case FilterAll, FilterFriends:
	case "":
		filter = FilterAll
	default:
		return nil, errno.ErrValidation.WithDetailf("filter %q is not one of all/friends", filter)
	}

	txs, err := s.selectTransactions(ctx, viewer, filter, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID
	}

	counts, err := s.reactions.CountsForMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	viewerReactions, err := s.reactions.ReactedByMany(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, len(txs))
	for i, tx := range txs {
		c := counts[tx.ID]
		if c == nil {
			c = map[string]int64{}
		}
		items[i] = FeedItem{
			Transaction:     tx,
			Reactions:       c,
			ViewerReactions: viewerReactions[tx.ID],
		}
	}
	return items, nil
}

// selectTransactions walks completed public transactions newest first,
// applying the friends predicate as part of selection, until limit items are
// collected or the stream is exhausted. Pages are keyset-cursored on
// (created_at, id) so a sparse social graph still reaches older qualifying
// rows instead of stopping at the newest page.
func (s *Service) selectTransactions(ctx context.Context, viewer string, filter Filter, limit int) ([]model.Transaction, error) {
	txs := make([]model.Transaction, 0, limit)

	var (
		cursorAt   time.Time
		cursorID   uint64
		haveCursor bool
	)
	for len(txs) < limit {
		q := s.db.WithContext(ctx).
			Where("status = ? AND privacy = ?", model.TxStatusCompleted, model.PrivacyPublic)
		if haveCursor {
			q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursorAt, cursorAt, cursorID)
		}

		var page []model.Transaction
		if err := q.Order("created_at DESC, id DESC").Limit(feedScanPage).Find(&page).Error; err != nil {
			return nil, errno.ErrDatabase.WithDetailf("load feed transactions: %v", err)
		}
		if len(page) == 0 {
			break
		}

		last := page[len(page)-1]
		cursorAt, cursorID, haveCursor = last.CreatedAt, last.ID, true

		for _, tx := range page {
			if filter == FilterFriends && !s.isFriend(viewer, tx.FromUsername) && !s.isFriend(viewer, tx.ToUsername) {
				continue
			}
			txs = append(txs, tx)
			if len(txs) == limit {
				break
			}
		}

		if len(page) < feedScanPage {
			break
		}
	}
	return txs, nil
}
