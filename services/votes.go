package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/stackit/stackit/models"
)

// Vote ledger errors, mapped to HTTP statuses by the controllers.
var (
	ErrTargetNotFound = errors.New("vote target not found")
	ErrSelfVote       = errors.New("cannot vote on your own content")
	ErrInvalidVote    = errors.New("vote value must be 1 or -1")
	ErrAlreadyVoted   = errors.New("already voted")
)

// VoteResult carries the target's counters and the caller's resulting vote
// state so the client can render toggle state without re-fetching.
type VoteResult struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	UserVote  *int  `json:"user_vote"` // 1, -1 or null when the vote was undone
}

// VoteLedger maintains the one-vote-per-user-per-target invariant and keeps
// each target's denormalized counters consistent with the votes referencing
// it. Counter updates are atomic in-database increments, so concurrent votes
// on the same target cannot lose updates; the composite unique index on votes
// catches duplicate ballots racing each other.
type VoteLedger struct {
	db *gorm.DB
}

// NewVoteLedger creates a VoteLedger on the given database handle.
func NewVoteLedger(db *gorm.DB) *VoteLedger {
	return &VoteLedger{db: db}
}

// Cast applies a vote by userID on the given target.
//
// State machine over the caller's existing vote for the target:
//   - no existing vote: create it and bump the matching counter;
//   - same value again: remove it and drop the counter (undo);
//   - opposite value: flip the vote row and move one count across (switch).
func (l *VoteLedger) Cast(userID uint, targetType string, targetID uint, value int) (*VoteResult, error) {
	if value != models.VoteUp && value != models.VoteDown {
		return nil, ErrInvalidVote
	}
	if targetType != models.TargetQuestion && targetType != models.TargetAnswer {
		return nil, ErrInvalidVote
	}

	var result VoteResult
	err := l.db.Transaction(func(tx *gorm.DB) error {
		ownerID, err := targetOwner(tx, targetType, targetID)
		if err != nil {
			return err
		}
		if ownerID == userID {
			return ErrSelfVote
		}

		var existing models.Vote
		err = tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{UserID: userID, TargetType: targetType, TargetID: targetID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrAlreadyVoted
				}
				return err
			}
			if err := adjustCounter(tx, targetType, targetID, counterColumn(value), +1); err != nil {
				return err
			}
			v := value
			result.UserVote = &v

		case err != nil:
			return err

		case existing.Value == value:
			// Toggle/undo: same ballot again removes it.
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := adjustCounter(tx, targetType, targetID, counterColumn(value), -1); err != nil {
				return err
			}
			result.UserVote = nil

		default:
			// Switch: move one count from the old column to the new one.
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
			if err := adjustCounter(tx, targetType, targetID, counterColumn(existing.Value), -1); err != nil {
				return err
			}
			if err := adjustCounter(tx, targetType, targetID, counterColumn(value), +1); err != nil {
				return err
			}
			v := value
			result.UserVote = &v
		}

		result.Upvotes, result.Downvotes, err = readCounters(tx, targetType, targetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UserVote returns the caller's current vote on a target, or nil.
func (l *VoteLedger) UserVote(userID uint, targetType string, targetID uint) (*int, error) {
	var vote models.Vote
	err := l.db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote.Value, nil
}

func counterColumn(value int) string {
	if value == models.VoteUp {
		return "upvotes"
	}
	return "downvotes"
}

func targetModel(targetType string) (interface{}, error) {
	switch targetType {
	case models.TargetQuestion:
		return &models.Question{}, nil
	case models.TargetAnswer:
		return &models.Answer{}, nil
	default:
		return nil, ErrInvalidVote
	}
}

func targetOwner(tx *gorm.DB, targetType string, targetID uint) (uint, error) {
	model, err := targetModel(targetType)
	if err != nil {
		return 0, err
	}
	var row struct {
		UserID uint
	}
	err = tx.Model(model).Select("user_id").Where("id = ?", targetID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrTargetNotFound
	}
	if err != nil {
		return 0, err
	}
	return row.UserID, nil
}

func adjustCounter(tx *gorm.DB, targetType string, targetID uint, column string, delta int) error {
	model, err := targetModel(targetType)
	if err != nil {
		return err
	}
	return tx.Model(model).Where("id = ?", targetID).
		UpdateColumn(column, gorm.Expr(fmt.Sprintf("%s + ?", column), delta)).Error
}

func readCounters(tx *gorm.DB, targetType string, targetID uint) (int64, int64, error) {
	model, err := targetModel(targetType)
	if err != nil {
		return 0, 0, err
	}
	var row struct {
		Upvotes   int64
		Downvotes int64
	}
	if err := tx.Model(model).Select("upvotes", "downvotes").Where("id = ?", targetID).Take(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Upvotes, row.Downvotes, nil
}
