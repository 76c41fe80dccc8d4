package services

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackit/stackit/models"
)

// MaxTagsPerQuestion caps the tag set on a question.
const MaxTagsPerQuestion = 5

// NormalizeTags trims, lowercases and de-duplicates tag names, dropping
// empties and capping the result at MaxTagsPerQuestion.
func NormalizeTags(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if len(out) == MaxTagsPerQuestion {
			break
		}
	}
	return out
}

// EnsureTags resolves each normalized name to a Tag record, creating missing
// ones. The insert uses ON CONFLICT DO NOTHING followed by a fetch, so two
// concurrent first-uses of the same name both succeed and share one row.
func EnsureTags(db *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag := models.Tag{Name: name}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
			return nil, err
		}
		if tag.ID == 0 {
			// Row existed already (ours or a racing creator's); fetch it.
			if err := db.Where("name = ?", name).First(&tag).Error; err != nil {
				return nil, err
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
