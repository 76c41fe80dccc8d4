package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy   = bluemonday.UGCPolicy()
	strictPolic = bluemonday.StrictPolicy()
)

// Sanitize cleans user-supplied rich text (question bodies, answers,
// comments) keeping a safe HTML subset.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizeStrict strips all HTML, used for titles and plain-text fields.
func SanitizeStrict(input string) string {
	return strictPolic.Sanitize(input)
}
