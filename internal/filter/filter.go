// Package filter derives the visible topic list: predicates, ordering and paging.
// Every function here is pure and leaves its inputs untouched.
package filter

import (
	"sort"
	"strings"

	"github.com/mohammad-safakhou/digestboard/models"
)

// Page size bounds offered by the dashboard.
const (
	DefaultPageSize = 6
	MinPageSize     = 3
	MaxPageSize     = 12
)

// Criteria is the user's filter state. The zero value of each field disables it.
type Criteria struct {
	Query         string   `json:"q"`
	UnreadOnly    bool     `json:"unread"`
	FavoritesOnly bool     `json:"favorites"`
	From          int64    `json:"from"`
	To            int64    `json:"to"`
	ScoreMin      *float64 `json:"scoreMin,omitempty"`
	ScoreMax      *float64 `json:"scoreMax,omitempty"`

	SortByInterest bool `json:"sort"`
	Page           int  `json:"page"`
	PageSize       int  `json:"pageSize"`
}

// DefaultCriteria is the state a fresh view starts from and Reset returns to.
func DefaultCriteria() Criteria {
	return Criteria{SortByInterest: true, Page: 1, PageSize: DefaultPageSize}
}

// Reset drops every filter and returns to the defaults.
func (c Criteria) Reset() Criteria { return DefaultCriteria() }

// Flags is the read/favorite state at filter time.
type Flags struct {
	Read     map[string]bool
	Favorite map[string]bool
}

func scoreOf(t models.Topic, scores map[string]float64) (float64, bool) {
	if s, ok := scores[t.TopicID]; ok {
		return s, true
	}
	return t.Score()
}

func (c Criteria) matchesQuery(t models.Topic) bool {
	q := strings.ToLower(strings.TrimSpace(c.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{t.Title, t.Detail, t.GroupID, t.SessionID} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	names, _ := models.ParseContributors(t.Contributors)
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), q) {
			return true
		}
	}
	return false
}

func (c Criteria) inScoreRange(s float64) bool {
	if c.ScoreMin != nil && s < *c.ScoreMin {
		return false
	}
	if c.ScoreMax != nil && s > *c.ScoreMax {
		return false
	}
	return true
}

// Match reports whether t passes every active criterion.
func (c Criteria) Match(t models.Topic, flags Flags, scores map[string]float64) bool {
	if c.UnreadOnly && flags.Read[t.TopicID] {
		return false
	}
	if c.FavoritesOnly && !flags.Favorite[t.TopicID] {
		return false
	}
	if c.From != 0 && t.TimeStart < c.From {
		return false
	}
	if c.To != 0 && t.TimeStart > c.To {
		return false
	}
	if s, ok := scoreOf(t, scores); ok && !c.inScoreRange(s) {
		return false
	}
	return c.matchesQuery(t)
}

// Apply returns the topics passing c, in input order.
func Apply(topics []models.Topic, c Criteria, flags Flags, scores map[string]float64) []models.Topic {
	out := make([]models.Topic, 0, len(topics))
	for _, t := range topics {
		if c.Match(t, flags, scores) {
			out = append(out, t)
		}
	}
	return out
}

// Less is the dashboard order: scored before unscored, higher score first,
// then newer timeStart, then topicId.
func Less(a, b models.Topic, scores map[string]float64) bool {
	sa, okA := scoreOf(a, scores)
	sb, okB := scoreOf(b, scores)
	if okA != okB {
		return okA
	}
	if okA && sa != sb {
		return sa > sb
	}
	if a.TimeStart != b.TimeStart {
		return a.TimeStart > b.TimeStart
	}
	return a.TopicID < b.TopicID
}

// Sort returns a sorted copy of topics.
func Sort(topics []models.Topic, scores map[string]float64) []models.Topic {
	out := make([]models.Topic, len(topics))
	copy(out, topics)
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j], scores) })
	return out
}
