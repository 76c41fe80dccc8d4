package services

import (
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/stackit/stackit/models"
	"github.com/stackit/stackit/utils"
)

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// ExtractMentions returns the usernames referenced as @username tokens in
// content text, in order of first appearance.
func ExtractMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Notifier creates notification records as side effects of content activity.
// All delivery is best-effort: failures are logged and swallowed, never
// surfaced to the request that triggered them.
type Notifier struct {
	db *gorm.DB
}

// NewNotifier creates a Notifier on the given database handle.
func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

// AnswerPosted notifies the question owner that actor answered, unless the
// actor owns the question.
func (n *Notifier) AnswerPosted(question *models.Question, actor *models.User) {
	if question.UserID == actor.ID {
		return
	}
	n.deliver(models.Notification{
		RecipientID: question.UserID,
		Type:        models.NotifyAnswer,
		Message:     fmt.Sprintf("%s answered your question", actor.Username),
		Link:        fmt.Sprintf("/questions/%d", question.ID),
	})
}

// AnswerAccepted notifies the answer owner that their answer was accepted.
func (n *Notifier) AnswerAccepted(answer *models.Answer, questionID uint) {
	n.deliver(models.Notification{
		RecipientID: answer.UserID,
		Type:        models.NotifyAnswer,
		Message:     "your answer was marked as accepted",
		Link:        fmt.Sprintf("/questions/%d", questionID),
	})
}

// CommentPosted notifies the answer owner of a new comment and fans out one
// mention notification per @username resolved in the body, excluding the
// author in both cases.
func (n *Notifier) CommentPosted(answer *models.Answer, actor *models.User, content string) {
	link := fmt.Sprintf("/questions/%d", answer.QuestionID)

	if answer.UserID != actor.ID {
		n.deliver(models.Notification{
			RecipientID: answer.UserID,
			Type:        models.NotifyComment,
			Message:     fmt.Sprintf("%s commented on your answer", actor.Username),
			Link:        link,
		})
	}

	usernames := ExtractMentions(content)
	if len(usernames) == 0 {
		return
	}
	var mentioned []models.User
	if err := n.db.Where("username IN ?", usernames).Find(&mentioned).Error; err != nil {
		n.logf("resolve mentions failed: %v", err)
		return
	}
	for _, user := range mentioned {
		if user.ID == actor.ID {
			continue
		}
		n.deliver(models.Notification{
			RecipientID: user.ID,
			Type:        models.NotifyMention,
			Message:     fmt.Sprintf("%s mentioned you in a comment", actor.Username),
			Link:        link,
		})
	}
}

// Broadcast fans an admin message out to every user as a notification.
func (n *Notifier) Broadcast(msg *models.AdminMessage) {
	var ids []uint
	if err := n.db.Model(&models.User{}).Pluck("id", &ids).Error; err != nil {
		n.logf("broadcast recipient lookup failed: %v", err)
		return
	}
	for _, id := range ids {
		if id == msg.SentByID {
			continue
		}
		n.deliver(models.Notification{
			RecipientID: id,
			Type:        models.NotifyAdmin,
			Message:     msg.Subject,
			Link:        "/notifications",
		})
	}
}

func (n *Notifier) deliver(note models.Notification) {
	if err := n.db.Create(&note).Error; err != nil {
		n.logf("notification delivery failed recipient=%d type=%s: %v", note.RecipientID, note.Type, err)
	}
}

func (n *Notifier) logf(format string, args ...interface{}) {
	if utils.Sugar != nil {
		utils.Sugar.Warnf(format, args...)
	}
}
