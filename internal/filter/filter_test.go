package filter

import (
	"math/rand"
	"reflect"
	"strconv"
	"testing"

	"github.com/mohammad-safakhou/digestboard/models"
)

func f(v float64) *float64 { return &v }

func ids(ts []models.Topic) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.TopicID
	}
	return out
}

func sample() []models.Topic {
	return []models.Topic{
		{TopicID: "a", Title: "Release plan", Detail: "ship friday", Contributors: `["alice","bob"]`, TimeStart: 100, InterestScore: f(0.2)},
		{TopicID: "b", Title: "Lunch", Detail: "noodles", Contributors: "carol、dave", TimeStart: 300},
		{TopicID: "c", Title: "Incident review", Detail: "db outage", Contributors: `["erin"]`, TimeStart: 200, InterestScore: f(-0.6)},
		{TopicID: "d", Title: "Roadmap", Detail: "Q3 goals", Contributors: `["frank"]`, TimeStart: 400, InterestScore: f(0.9), GroupID: "eng-core"},
	}
}

func TestSortScoredBeforeUnscored(t *testing.T) {
	topics := []models.Topic{
		{TopicID: "T2", TimeStart: 999},
		{TopicID: "T1", TimeStart: 1, InterestScore: f(0.8)},
	}
	got := ids(Sort(topics, nil))
	if !reflect.DeepEqual(got, []string{"T1", "T2"}) {
		t.Fatalf("expected [T1 T2], got %v", got)
	}
	if topics[0].TopicID != "T2" {
		t.Fatalf("Sort must not mutate its input")
	}
}

func TestSortOrderAndTieBreak(t *testing.T) {
	topics := append(sample(),
		models.Topic{TopicID: "e", TimeStart: 400, InterestScore: f(0.9)},
		models.Topic{TopicID: "g", TimeStart: 500},
	)
	got := ids(Sort(topics, nil))
	want := []string{"d", "e", "a", "c", "g", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSortIdempotentAndTotal(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	topics := make([]models.Topic, 0, 200)
	for i := 0; i < 200; i++ {
		tp := models.Topic{TopicID: strconv.Itoa(i), TimeStart: int64(r.Intn(10))}
		if r.Intn(3) > 0 {
			tp.InterestScore = f(float64(r.Intn(5)) / 4)
		}
		topics = append(topics, tp)
	}
	once := Sort(topics, nil)
	twice := Sort(once, nil)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Fatalf("sort is not idempotent")
	}
	shuffled := make([]models.Topic, len(topics))
	copy(shuffled, topics)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if !reflect.DeepEqual(ids(Sort(shuffled, nil)), ids(once)) {
		t.Fatalf("order depends on input order")
	}
}

func TestSortUsesScoreMap(t *testing.T) {
	topics := []models.Topic{{TopicID: "x", TimeStart: 10}, {TopicID: "y", TimeStart: 5}}
	got := ids(Sort(topics, map[string]float64{"y": 0.1}))
	if !reflect.DeepEqual(got, []string{"y", "x"}) {
		t.Fatalf("expected score map to rank y first, got %v", got)
	}
}

func TestScoreRangeNeverExcludesUnscored(t *testing.T) {
	c := Criteria{ScoreMin: f(0), ScoreMax: f(0.5)}
	got := ids(Apply(sample(), c, Flags{}, nil))
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected a (0.2) and unscored b, got %v", got)
	}
}

func TestUnreadOnlyExcludesExactlyRead(t *testing.T) {
	flags := Flags{Read: map[string]bool{"a": true, "c": true, "z": true, "b": false}}
	got := ids(Apply(sample(), Criteria{UnreadOnly: true}, flags, nil))
	if !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Fatalf("got %v", got)
	}
}

func TestFavoritesOnly(t *testing.T) {
	flags := Flags{Favorite: map[string]bool{"c": true}}
	got := ids(Apply(sample(), Criteria{FavoritesOnly: true}, flags, nil))
	if !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("got %v", got)
	}
}

func TestSearchMatchesAnyField(t *testing.T) {
	cases := map[string][]string{
		"RELEASE":  {"a"},
		"outage":   {"c"},
		"dave":     {"b"},
		"frank":    {"d"},
		"eng-core": {"d"},
		"zzz":      {},
		"  ":       {"a", "b", "c", "d"},
	}
	for q, want := range cases {
		got := ids(Apply(sample(), Criteria{Query: q}, Flags{}, nil))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("query %q: got %v want %v", q, got, want)
		}
	}
}

func TestDateRangeOnTimeStart(t *testing.T) {
	got := ids(Apply(sample(), Criteria{From: 200, To: 300}, Flags{}, nil))
	if !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("got %v", got)
	}
	got = ids(Apply(sample(), Criteria{From: 350}, Flags{}, nil))
	if !reflect.DeepEqual(got, []string{"d"}) {
		t.Fatalf("open upper bound: got %v", got)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	c := Criteria{Query: "x", UnreadOnly: true, Page: 4, PageSize: 12}
	if !reflect.DeepEqual(c.Reset(), DefaultCriteria()) {
		t.Fatalf("reset did not restore defaults: %+v", c.Reset())
	}
}
