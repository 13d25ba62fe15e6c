package server

import (
	"time"

	"github.com/mohammad-safakhou/digestboard/internal/filter"
	"github.com/mohammad-safakhou/digestboard/models"
)

// Envelope wraps every API response.
type Envelope struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Message  string      `json:"message,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

// RefreshRequest asks for a pipeline run. Zero bounds select the default window.
type RefreshRequest struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// RefreshResponse summarises an accepted run.
type RefreshResponse struct {
	RunID      string        `json:"runId"`
	Generation uint64        `json:"generation"`
	Window     models.Window `json:"window"`
	Topics     int           `json:"topics"`
	Scored     int           `json:"scored"`
	FetchedAt  time.Time     `json:"fetchedAt"`
}

// TopicsResponse is one filtered page of the current board.
type TopicsResponse struct {
	filter.Page
	Window    models.Window `json:"window"`
	FetchedAt time.Time     `json:"fetchedAt"`
	Loading   bool          `json:"loading"`
	LastError string        `json:"lastError,omitempty"`
}

// BatchReadRequest marks many topics read in one call.
type BatchReadRequest struct {
	TopicIDs []string `json:"topicIds"`
}

// FlagResponse reports a flag after a change.
type FlagResponse struct {
	TopicID string `json:"topicId"`
	Flag    string `json:"flag"`
	Value   bool   `json:"value"`
}

// StatusResponse is the full flag state used to hydrate a view.
type StatusResponse struct {
	Read     map[string]bool `json:"read"`
	Favorite map[string]bool `json:"favorite"`
}

// TextResponse carries a plain-text export.
type TextResponse struct {
	TopicID string `json:"topicId"`
	Text    string `json:"text"`
}

// HighlightResponse carries a topic's detail split into display segments.
type HighlightResponse struct {
	TopicID      string           `json:"topicId"`
	Contributors []string         `json:"contributors"`
	Segments     []filter.Segment `json:"segments"`
}

// SessionDigestResponse is the digest lookup for a single session.
type SessionDigestResponse struct {
	SessionID    string          `json:"sessionId"`
	Digests      []models.Digest `json:"digests"`
	IsSummarized bool            `json:"isSummarized"`
}
