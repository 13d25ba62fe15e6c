// Package pipeline assembles topic records from the remote data service.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mohammad-safakhou/digestboard/internal/synthos"
	"github.com/mohammad-safakhou/digestboard/models"
)

// ErrInvalidWindow rejects a window whose start is after its end.
var ErrInvalidWindow = errors.New("invalid time window")

// Source is the subset of the remote client the pipeline needs.
type Source interface {
	GroupDetails(ctx context.Context) (map[string]models.Group, error)
	SessionIDsByGroupIDsAndTimeRange(ctx context.Context, groupIDs []string, start, end int64) ([]models.GroupSessions, error)
	SessionTimeDurations(ctx context.Context, sessionIDs []string) ([]models.SessionWindow, error)
	DigestResultsBySessionIDs(ctx context.Context, sessionIDs []string) ([]models.SessionDigests, error)
	InterestScoreResults(ctx context.Context, topicIDs []string) ([]models.ScoreResult, error)
}

// Result is one completed aggregation.
type Result struct {
	RunID      string                  `json:"runId"`
	Generation uint64                  `json:"generation"`
	Window     models.Window           `json:"window"`
	Topics     []models.Topic          `json:"topics"`
	Scores     map[string]float64      `json:"scores"`
	Groups     map[string]models.Group `json:"groups"`
	FetchedAt  time.Time               `json:"fetchedAt"`
}

// Pipeline resolves groups -> sessions -> durations -> digests -> scores.
type Pipeline struct {
	source Source
	logger *log.Logger
	now    func() time.Time
}

// New builds a pipeline over source.
func New(source Source, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(log.Writer(), "[PIPE] ", log.LstdFlags)
	}
	return &Pipeline{source: source, logger: logger, now: time.Now}
}

// DefaultWindow is the rolling window used when the caller gives none.
func DefaultWindow(now time.Time, span time.Duration) models.Window {
	return models.WindowFromTimes(now.Add(-span), now.Add(span))
}

func remoteFailure(step string, err error) error {
	if !errors.Is(err, synthos.ErrRemoteCallFailed) {
		err = &synthos.RemoteError{Op: step, Err: err}
	}
	return fmt.Errorf("%s: %w", step, err)
}

// Run executes every step in order. The first failed call aborts the run and
// nothing partial is returned.
func (p *Pipeline) Run(ctx context.Context, w models.Window) (Result, error) {
	if !w.Valid() {
		return Result{}, fmt.Errorf("%w: start %d after end %d", ErrInvalidWindow, w.Start, w.End)
	}
	res := Result{
		RunID:  uuid.NewString(),
		Window: w,
		Topics: []models.Topic{},
		Scores: map[string]float64{},
		Groups: map[string]models.Group{},
	}

	groups, err := p.source.GroupDetails(ctx)
	if err != nil {
		return Result{}, remoteFailure("groups", err)
	}
	for id, g := range groups {
		res.Groups[id] = g
	}
	if len(groups) == 0 {
		res.FetchedAt = p.now()
		return res, nil
	}
	groupIDs := make([]string, 0, len(groups))
	for id := range groups {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(groupIDs)

	listed, err := p.source.SessionIDsByGroupIDsAndTimeRange(ctx, groupIDs, w.Start, w.End)
	if err != nil {
		return Result{}, remoteFailure("sessions", err)
	}
	sessionGroup := map[string]string{}
	sessionIDs := []string{}
	for _, gs := range listed {
		for _, sid := range gs.SessionIDs {
			if sid == "" {
				continue
			}
			if _, dup := sessionGroup[sid]; dup {
				continue
			}
			sessionGroup[sid] = gs.GroupID
			sessionIDs = append(sessionIDs, sid)
		}
	}
	if len(sessionIDs) == 0 {
		res.FetchedAt = p.now()
		return res, nil
	}

	durations, err := p.source.SessionTimeDurations(ctx, sessionIDs)
	if err != nil {
		return Result{}, remoteFailure("durations", err)
	}
	sessions := make([]models.SessionWindow, 0, len(durations))
	for _, d := range durations {
		gid, known := sessionGroup[d.SessionID]
		if !known {
			continue
		}
		if d.TimeStart > d.TimeEnd {
			d.TimeStart, d.TimeEnd = d.TimeEnd, d.TimeStart
		}
		if !w.Overlaps(d.Window()) {
			continue
		}
		d.GroupID = gid
		sessions = append(sessions, d)
	}
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].TimeEnd > sessions[j].TimeEnd })
	if len(sessions) == 0 {
		res.FetchedAt = p.now()
		return res, nil
	}

	kept := make([]string, len(sessions))
	for i, s := range sessions {
		kept[i] = s.SessionID
	}
	digests, err := p.source.DigestResultsBySessionIDs(ctx, kept)
	if err != nil {
		return Result{}, remoteFailure("digests", err)
	}
	bySession := make(map[string][]models.Digest, len(digests))
	for _, sd := range digests {
		bySession[sd.SessionID] = append(bySession[sd.SessionID], sd.Result...)
	}

	seen := map[string]struct{}{}
	malformed := 0
	for _, s := range sessions {
		for _, d := range bySession[s.SessionID] {
			if d.TopicID == "" {
				continue
			}
			if _, dup := seen[d.TopicID]; dup {
				continue
			}
			seen[d.TopicID] = struct{}{}
			if _, err := models.ParseContributors(d.Contributors); err != nil {
				malformed++
			}
			res.Topics = append(res.Topics, models.Topic{
				TopicID:      d.TopicID,
				SessionID:    s.SessionID,
				GroupID:      s.GroupID,
				Title:        d.Topic,
				Contributors: d.Contributors,
				Detail:       d.Detail,
				TimeStart:    s.TimeStart,
				TimeEnd:      s.TimeEnd,
			})
		}
	}
	if malformed > 0 {
		p.logger.Printf("run %s: %d topics with malformed contributors", res.RunID, malformed)
	}
	if len(res.Topics) == 0 {
		res.FetchedAt = p.now()
		return res, nil
	}

	topicIDs := make([]string, len(res.Topics))
	for i, t := range res.Topics {
		topicIDs[i] = t.TopicID
	}
	scores, err := p.source.InterestScoreResults(ctx, topicIDs)
	if err != nil {
		return Result{}, remoteFailure("scores", err)
	}
	for _, sr := range scores {
		if sr.Score == nil {
			continue
		}
		if _, ok := seen[sr.TopicID]; ok {
			res.Scores[sr.TopicID] = *sr.Score
		}
	}
	for i := range res.Topics {
		if s, ok := res.Scores[res.Topics[i].TopicID]; ok {
			v := s
			res.Topics[i].InterestScore = &v
		}
	}

	res.FetchedAt = p.now()
	p.logger.Printf("run %s: %d groups, %d sessions, %d topics, %d scored", res.RunID, len(groups), len(sessions), len(res.Topics), len(res.Scores))
	return res, nil
}
