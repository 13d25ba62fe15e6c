// Package synthos is the REST client for the Synthos chat-digest data service.
package synthos

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/digestboard/config"
	"github.com/mohammad-safakhou/digestboard/models"
)

// envelope is the response shape shared by every endpoint.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// Client talks to the Synthos data service.
type Client struct {
	baseURL string
	headers map[string]string
	http    *HTTPClient
	logger  *log.Logger
}

// New builds a client from config. A nil logger writes to the standard log output.
func New(cfg config.RemoteConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.Writer(), "[REMOTE] ", log.LstdFlags)
	}
	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: headers,
		http:    NewHTTPClient(cfg.Timeout, cfg.Retries, cfg.Backoff),
		logger:  logger,
	}
}

func call[T any](ctx context.Context, c *Client, op, method, path string, query url.Values, body any) (T, error) {
	var zero T
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var env envelope[T]
	err := c.http.DoJSON(ctx, method, u, c.headers, body, &env)
	if err == nil && !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "service reported failure"
		}
		err = &RemoteError{Op: op, Message: msg}
	}
	observe(op, err)
	if err != nil {
		var re *RemoteError
		if !errors.As(err, &re) {
			re = &RemoteError{Op: op, Err: err}
			var se *statusError
			if errors.As(err, &se) {
				re.Status = se.Code
			}
		}
		c.logger.Printf("%s %s failed: %v", method, path, re)
		return zero, re
	}
	return env.Data, nil
}

// Health pings the service.
func (c *Client) Health(ctx context.Context) error {
	_, err := call[struct {
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}](ctx, c, "health", http.MethodGet, "/health", nil, nil)
	return err
}

// GroupDetails returns every known group keyed by group id.
func (c *Client) GroupDetails(ctx context.Context) (map[string]models.Group, error) {
	return call[map[string]models.Group](ctx, c, "group_details", http.MethodGet, "/api/group-details", nil, nil)
}

// SessionIDsByGroupIDsAndTimeRange resolves the sessions of many groups in one request.
func (c *Client) SessionIDsByGroupIDsAndTimeRange(ctx context.Context, groupIDs []string, start, end int64) ([]models.GroupSessions, error) {
	body := map[string]any{"groupIds": groupIDs, "timeStart": start, "timeEnd": end}
	return call[[]models.GroupSessions](ctx, c, "session_ids", http.MethodPost, "/api/session-ids-by-group-ids-and-time-range", nil, body)
}

// SessionTimeDurations returns the actual span of each session.
func (c *Client) SessionTimeDurations(ctx context.Context, sessionIDs []string) ([]models.SessionWindow, error) {
	body := map[string]any{"sessionIds": sessionIDs}
	return call[[]models.SessionWindow](ctx, c, "session_durations", http.MethodPost, "/api/session-time-durations", nil, body)
}

// DigestResultsBySessionIDs returns the digest topics of each session.
func (c *Client) DigestResultsBySessionIDs(ctx context.Context, sessionIDs []string) ([]models.SessionDigests, error) {
	body := map[string]any{"sessionIds": sessionIDs}
	return call[[]models.SessionDigests](ctx, c, "digest_results", http.MethodPost, "/api/ai-digest-results-by-session-ids", nil, body)
}

// DigestResultByTopicID fetches a single digest.
func (c *Client) DigestResultByTopicID(ctx context.Context, topicID string) (models.Digest, error) {
	q := url.Values{"topicId": {topicID}}
	return call[models.Digest](ctx, c, "digest_result", http.MethodGet, "/api/ai-digest-result-by-topic-id", q, nil)
}

// IsSessionSummarized reports whether the digest job has run for a session.
func (c *Client) IsSessionSummarized(ctx context.Context, sessionID string) (bool, error) {
	q := url.Values{"sessionId": {sessionID}}
	res, err := call[struct {
		IsSummarized bool `json:"isSummarized"`
	}](ctx, c, "is_session_summarized", http.MethodGet, "/api/is-session-summarized", q, nil)
	return res.IsSummarized, err
}

// InterestScoreResults returns scores for many topics; unscored topics carry a nil score.
func (c *Client) InterestScoreResults(ctx context.Context, topicIDs []string) ([]models.ScoreResult, error) {
	body := map[string]any{"topicIds": topicIDs}
	return call[[]models.ScoreResult](ctx, c, "interest_scores", http.MethodPost, "/api/interest-score-results", nil, body)
}

// ChatMessagesByGroupID lists a group's messages within [start, end].
func (c *Client) ChatMessagesByGroupID(ctx context.Context, groupID string, start, end int64) ([]models.ChatMessage, error) {
	q := url.Values{
		"groupId":   {groupID},
		"timeStart": {strconv.FormatInt(start, 10)},
		"timeEnd":   {strconv.FormatInt(end, 10)},
	}
	return call[[]models.ChatMessage](ctx, c, "chat_messages", http.MethodGet, "/api/chat-messages-by-group-id", q, nil)
}
