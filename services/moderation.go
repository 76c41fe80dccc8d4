package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stackit/stackit/utils"
)

// ModerationClient talks to the external moderation/tag-prediction service.
// Every call degrades to a local heuristic when the collaborator is
// unreachable; callers never see an error from it.
type ModerationClient struct {
	baseURL string
	client  *http.Client
}

// NewModerationClient creates a client for the service at baseURL.
func NewModerationClient(baseURL string) *ModerationClient {
	return &ModerationClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FilterResult is the cleanliness verdict for a piece of content.
type FilterResult struct {
	IsClean         bool   `json:"is_clean"`
	FilteredContent string `json:"filtered_content"`
}

// PredictTags suggests tags for a draft question. Falls back to keyword
// heuristics when the service is down.
func (m *ModerationClient) PredictTags(title, description string) []string {
	var resp struct {
		PredictedTags []string `json:"predicted_tags"`
	}
	err := m.post("/api/predict-tags/", map[string]string{
		"title":       title,
		"description": description,
	}, &resp)
	if err == nil && len(resp.PredictedTags) > 0 {
		return resp.PredictedTags
	}
	if err != nil {
		m.logf("tag prediction unavailable, using heuristics: %v", err)
	}
	return heuristicTags(title + " " + description)
}

// FilterContent checks content cleanliness. Falls back to a profanity and
// minimum-length check when the service is down.
func (m *ModerationClient) FilterContent(content string) FilterResult {
	var resp FilterResult
	err := m.post("/api/filter-content/", map[string]string{"content": content}, &resp)
	if err == nil {
		if resp.FilteredContent == "" {
			resp.FilteredContent = content
		}
		return resp
	}
	m.logf("content filter unavailable, using heuristics: %v", err)
	return heuristicFilter(content)
}

// Healthy reports whether the collaborator responds to its health endpoint.
func (m *ModerationClient) Healthy() bool {
	req, err := http.NewRequest(http.MethodGet, m.baseURL+"/api/health/", nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (m *ModerationClient) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := m.client.Post(m.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("moderation service returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (m *ModerationClient) logf(format string, args ...interface{}) {
	if utils.Sugar != nil {
		utils.Sugar.Warnf(format, args...)
	}
}

var keywordTags = map[string]string{
	"react":      "react",
	"javascript": "javascript",
	"python":     "python",
	"node":       "nodejs",
	"golang":     "go",
	"docker":     "docker",
	"sql":        "sql",
}

func heuristicTags(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for keyword, tag := range keywordTags {
		if strings.Contains(lower, keyword) {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		tags = []string{"general"}
	}
	return NormalizeTags(tags)
}

var profanityList = []string{"spamword", "scamword"}

func heuristicFilter(content string) FilterResult {
	lower := strings.ToLower(content)
	clean := len(strings.TrimSpace(content)) >= 10
	for _, word := range profanityList {
		if strings.Contains(lower, word) {
			clean = false
			break
		}
	}
	return FilterResult{IsClean: clean, FilteredContent: content}
}
