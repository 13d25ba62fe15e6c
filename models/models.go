package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTopicNotFound is returned when a topic is not found
var ErrTopicNotFound = errors.New("topic not found")

// ErrMalformedRecord marks a record field that could not be decoded.
var ErrMalformedRecord = errors.New("malformed record")

// Topic is one AI-generated summary of a discussion segment within a chat session.
type Topic struct {
	TopicID       string   `json:"topicId"`
	SessionID     string   `json:"sessionId"`
	GroupID       string   `json:"groupId"`
	Title         string   `json:"topic"`
	Contributors  string   `json:"contributors"`
	Detail        string   `json:"detail"`
	TimeStart     int64    `json:"timeStart"`
	TimeEnd       int64    `json:"timeEnd"`
	InterestScore *float64 `json:"interestScore,omitempty"`
}

// HasScore reports whether an interest score has been computed for the topic.
func (t Topic) HasScore() bool { return t.InterestScore != nil }

// Score returns the interest score and whether it is known.
func (t Topic) Score() (float64, bool) {
	if t.InterestScore == nil {
		return 0, false
	}
	return *t.InterestScore, true
}

// Window returns the session interval the topic was produced from.
func (t Topic) Window() Window {
	return Window{Start: t.TimeStart, End: t.TimeEnd}
}

// Normalize enforces TimeStart <= TimeEnd.
func (t Topic) Normalize() Topic {
	if t.TimeStart > t.TimeEnd {
		t.TimeStart, t.TimeEnd = t.TimeEnd, t.TimeStart
	}
	return t
}

// PlainText renders the topic for clipboard export.
func (t Topic) PlainText() string {
	var b strings.Builder
	b.WriteString(t.Title)
	b.WriteString("\n")
	names, _ := ParseContributors(t.Contributors)
	if len(names) > 0 {
		b.WriteString("Contributors: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}
	start := time.UnixMilli(t.TimeStart).Format("2006-01-02 15:04")
	end := time.UnixMilli(t.TimeEnd).Format("2006-01-02 15:04")
	fmt.Fprintf(&b, "Time: %s -> %s\n", start, end)
	if s, ok := t.Score(); ok {
		fmt.Fprintf(&b, "Interest: %.2f\n", s)
	}
	b.WriteString("\n")
	b.WriteString(t.Detail)
	return b.String()
}

// Window is a closed interval of epoch milliseconds.
type Window struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Valid reports whether Start <= End.
func (w Window) Valid() bool { return w.Start <= w.End }

// Overlaps reports whether the two closed intervals share at least one instant.
func (w Window) Overlaps(o Window) bool {
	return o.End >= w.Start && o.Start <= w.End
}

// Contains reports whether ms falls inside the window, bounds included.
func (w Window) Contains(ms int64) bool { return ms >= w.Start && ms <= w.End }

// WindowFromTimes converts wall-clock bounds into a millisecond window.
func WindowFromTimes(start, end time.Time) Window {
	return Window{Start: start.UnixMilli(), End: end.UnixMilli()}
}

// Group describes a chat group whose messages are ingested and summarized.
type Group struct {
	IM                string `json:"IM"`
	SplitStrategy     string `json:"splitStrategy"`
	GroupIntroduction string `json:"groupIntroduction"`
	AIModel           string `json:"aiModel"`
}

// GroupSessions lists the sessions of one group active in a time range.
type GroupSessions struct {
	GroupID    string   `json:"groupId"`
	SessionIDs []string `json:"sessionIds"`
}

// SessionWindow is a session's own time span, tagged with its group.
type SessionWindow struct {
	SessionID string `json:"sessionId"`
	GroupID   string `json:"groupId,omitempty"`
	TimeStart int64  `json:"timeStart"`
	TimeEnd   int64  `json:"timeEnd"`
}

// Window returns the session's interval.
func (s SessionWindow) Window() Window { return Window{Start: s.TimeStart, End: s.TimeEnd} }

// Digest is a raw AI digest result as delivered by the remote service.
type Digest struct {
	TopicID      string `json:"topicId"`
	SessionID    string `json:"sessionId"`
	Topic        string `json:"topic"`
	Contributors string `json:"contributors"`
	Detail       string `json:"detail"`
}

// SessionDigests groups the digests produced from one session.
type SessionDigests struct {
	SessionID string   `json:"sessionId"`
	Result    []Digest `json:"result"`
}

// ScoreResult is a topic's interest score; Score is nil when not yet computed.
type ScoreResult struct {
	TopicID string   `json:"topicId"`
	Score   *float64 `json:"score"`
}

// ChatMessage is a single ingested chat message.
type ChatMessage struct {
	MsgID               string `json:"msgId"`
	MessageContent      string `json:"messageContent"`
	GroupID             string `json:"groupId"`
	Timestamp           int64  `json:"timestamp"`
	SenderID            string `json:"senderId"`
	SenderGroupNickname string `json:"senderGroupNickname"`
	SenderNickname      string `json:"senderNickname"`
	QuotedMsgID         string `json:"quotedMsgId"`
	SessionID           string `json:"sessionId"`
	PreProcessedContent string `json:"preProcessedContent"`
}

// DisplayName prefers the group nickname over the account nickname.
func (m ChatMessage) DisplayName() string {
	if m.SenderGroupNickname != "" {
		return m.SenderGroupNickname
	}
	if m.SenderNickname != "" {
		return m.SenderNickname
	}
	return m.SenderID
}
