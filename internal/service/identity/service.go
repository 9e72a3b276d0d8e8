package identity

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"paygram/internal/model"
	"paygram/pkg/errno"
)

// ClaimOutcome tags what an upsert actually did, so the one-live-row
// invariant stays independently testable.
type ClaimOutcome string

const (
	ClaimInserted ClaimOutcome = "inserted"
	ClaimUpdated  ClaimOutcome = "updated"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
	minQueryLength     = 2
)

// Service owns User records and their uniqueness invariants.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Normalize applies the single username normalization rule: trimmed,
// lower-cased. Used at claim time and on every lookup so exact-match and
// search agree on case.
func Normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ClaimUsername upserts a user keyed on external_id. Re-claiming with the
// same external_id overwrites username and wallet address (last-write-wins).
// Claiming a username held by a different external_id fails with
// ErrUsernameTaken; the DB unique index backs this up so two concurrent
// claims cannot both win.
func (s *Service) ClaimUsername(ctx context.Context, externalID int64, username, walletAddress string) (*model.User, ClaimOutcome, error) {
	username = Normalize(username)
	if externalID == 0 {
		return nil, "", errno.ErrValidation.WithDetailf("external_id is required")
	}
	if username == "" {
		return nil, "", errno.ErrValidation.WithDetailf("username is required")
	}
	if walletAddress == "" {
		return nil, "", errno.ErrValidation.WithDetailf("wallet_address is required")
	}

	var user model.User
	outcome := ClaimUpdated

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Application-level check for a friendly error; the unique index is
		// what actually closes the race window.
		var holder model.User
		err := tx.Where("username = ?", username).First(&holder).Error
		if err == nil && holder.ExternalID != externalID {
			return errno.ErrUsernameTaken.WithDetailf("username %q held by another account", username)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.Where("external_id = ?", externalID).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = model.User{
				ExternalID:    externalID,
				Username:      username,
				WalletAddress: walletAddress,
				Privacy:       model.PrivacyPublic,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			outcome = ClaimInserted
			return nil
		case err != nil:
			return err
		default:
			user.Username = username
			user.WalletAddress = walletAddress
			return tx.Save(&user).Error
		}
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", errno.ErrUsernameTaken.WithDetailf("username %q held by another account", username)
		}
		var typed *errno.Errno
		if errors.As(err, &typed) {
			return nil, "", typed
		}
		return nil, "", errno.ErrDatabase.WithDetailf("claim username: %v", err)
	}

	return &user, outcome, nil
}

// LookupByExternalID returns the user owning the external id.
func (s *Service) LookupByExternalID(ctx context.Context, externalID int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrUserNotFound.WithDetailf("external_id %d", externalID)
		}
		return nil, errno.ErrDatabase.WithDetailf("lookup user: %v", err)
	}
	return &user, nil
}

// LookupByUsername returns the user holding username (normalized first).
func (s *Service) LookupByUsername(ctx context.Context, username string) (*model.User, error) {
	username = Normalize(username)

	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrUserNotFound.WithDetailf("username %q", username)
		}
		return nil, errno.ErrDatabase.WithDetailf("lookup user: %v", err)
	}
	return &user, nil
}

// Search finds users whose username contains query, case-insensitively.
// Queries shorter than two characters return an empty result, not an error.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]model.User, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}

	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return []model.User{}, nil
	}

	term := "%" + strings.ToLower(query) + "%"

	var users []model.User
	if err := s.db.WithContext(ctx).
		Where("LOWER(username) LIKE ?", term).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, errno.ErrDatabase.WithDetailf("search users: %v", err)
	}
	return users, nil
}

// ProfileUpdate carries the partial profile fields. Nil pointer means "leave
// unchanged"; to clear a field callers send the empty string.
type ProfileUpdate struct {
	Bio     *string
	Avatar  *string
	Privacy *string
}

// UpdateProfile applies a partial update to the named user's profile.
func (s *Service) UpdateProfile(ctx context.Context, username string, upd ProfileUpdate) (*model.User, error) {
	username = Normalize(username)

	updates := map[string]interface{}{}
	if upd.Bio != nil {
		updates["bio"] = *upd.Bio
	}
	if upd.Avatar != nil {
		updates["avatar"] = *upd.Avatar
	}
	if upd.Privacy != nil {
		switch *upd.Privacy {
		case model.PrivacyPublic, model.PrivacyFriends, model.PrivacyPrivate:
			updates["privacy"] = *upd.Privacy
		default:
			return nil, errno.ErrValidation.WithDetailf("privacy %q is not one of public/friends/private", *upd.Privacy)
		}
	}

	var user model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrUserNotFound.WithDetailf("username %q", username)
		}
		return nil, errno.ErrDatabase.WithDetailf("update profile: %v", err)
	}
	return &user, nil
}
