package filter

import (
	"strconv"
	"testing"

	"github.com/mohammad-safakhou/digestboard/models"
)

func many(n int) []models.Topic {
	out := make([]models.Topic, n)
	for i := range out {
		out[i] = models.Topic{TopicID: "t" + strconv.Itoa(i), TimeStart: int64(i)}
	}
	return out
}

func TestViewPaging(t *testing.T) {
	c := DefaultCriteria()
	p := View(many(14), c, Flags{}, nil)
	if p.Total != 14 || p.TotalPages != 3 || p.Page != 1 || p.PageSize != 6 || len(p.Items) != 6 {
		t.Fatalf("unexpected first page %+v", p)
	}
	if p.Items[0].TopicID != "t13" {
		t.Fatalf("expected newest first, got %s", p.Items[0].TopicID)
	}

	c.Page = 99
	p = View(many(14), c, Flags{}, nil)
	if p.Page != 3 || len(p.Items) != 2 {
		t.Fatalf("page should clamp to last: %+v", p)
	}

	c.Page, c.PageSize = 0, 100
	p = View(many(14), c, Flags{}, nil)
	if p.Page != 1 || p.PageSize != MaxPageSize || len(p.Items) != 12 {
		t.Fatalf("size should clamp to max: %+v", p)
	}
}

func TestViewEmpty(t *testing.T) {
	p := View(nil, DefaultCriteria(), Flags{}, nil)
	if p.Total != 0 || p.TotalPages != 1 || p.Page != 1 || p.Items == nil || len(p.Items) != 0 {
		t.Fatalf("unexpected empty page %+v", p)
	}
}

func TestViewDecoratesItems(t *testing.T) {
	topics := []models.Topic{{TopicID: "a", Contributors: "x, y"}}
	flags := Flags{Read: map[string]bool{"a": true}, Favorite: map[string]bool{"a": true}}
	p := View(topics, DefaultCriteria(), flags, map[string]float64{"a": 0.5})
	it := p.Items[0]
	if !it.Read || !it.Favorite || it.Band != models.ScoreBandHigh || len(it.ContributorList) != 2 {
		t.Fatalf("unexpected item %+v", it)
	}
	if it.InterestScore == nil || *it.InterestScore != 0.5 {
		t.Fatalf("score from map not attached")
	}
	if topics[0].InterestScore != nil {
		t.Fatalf("View must not mutate input")
	}
}

func TestClampPageSize(t *testing.T) {
	for in, want := range map[int]int{-1: 6, 0: 6, 1: 3, 3: 3, 7: 7, 12: 12, 13: 12} {
		if got := ClampPageSize(in); got != want {
			t.Fatalf("ClampPageSize(%d) = %d, want %d", in, got, want)
		}
	}
}
