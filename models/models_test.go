package models

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseContributors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
		bad  bool
	}{
		{name: "empty", raw: "", want: nil},
		{name: "json array", raw: `["alice", " bob ", ""]`, want: []string{"alice", "bob"}},
		{name: "comma list", raw: "alice, bob,carol", want: []string{"alice", "bob", "carol"}},
		{name: "fullwidth separators", raw: "张三，李四、王五 赵六", want: []string{"张三", "李四", "王五", "赵六"}},
		{name: "broken json", raw: `["alice",`, want: nil, bad: true},
		{name: "json of wrong type", raw: `[1,2]`, want: nil, bad: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseContributors(tc.raw)
			if tc.bad {
				if !errors.Is(err, ErrMalformedRecord) {
					t.Fatalf("expected ErrMalformedRecord, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestEncodeContributorsRoundTrip(t *testing.T) {
	enc := EncodeContributors([]string{" alice", "bob", ""})
	if enc != `["alice","bob"]` {
		t.Fatalf("unexpected encoding %s", enc)
	}
	got, err := ParseContributors(enc)
	if err != nil || !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Fatalf("round trip failed: %v %v", got, err)
	}
}

func TestWindowOverlaps(t *testing.T) {
	w := Window{Start: 120, End: 180}
	if !w.Overlaps(Window{Start: 100, End: 200}) {
		t.Fatalf("expected [100,200] to overlap")
	}
	if !w.Overlaps(Window{Start: 150, End: 250}) {
		t.Fatalf("expected [150,250] to overlap")
	}
	if w.Overlaps(Window{Start: 300, End: 400}) {
		t.Fatalf("expected [300,400] not to overlap")
	}
	if !w.Overlaps(Window{Start: 180, End: 190}) {
		t.Fatalf("touching bounds should overlap")
	}
}

func TestTopicNormalizeAndText(t *testing.T) {
	score := 0.42
	tp := Topic{TopicID: "t1", Title: "Release plan", Contributors: `["alice","bob"]`, Detail: "ship it", TimeStart: 2000, TimeEnd: 1000, InterestScore: &score}
	n := tp.Normalize()
	if n.TimeStart != 1000 || n.TimeEnd != 2000 {
		t.Fatalf("normalize did not swap: %+v", n)
	}
	txt := n.PlainText()
	for _, want := range []string{"Release plan", "alice, bob", "Interest: 0.42", "ship it"} {
		if !strings.Contains(txt, want) {
			t.Fatalf("plain text missing %q:\n%s", want, txt)
		}
	}
}

func TestBandFor(t *testing.T) {
	cases := []struct {
		score *float64
		want  ScoreBand
	}{
		{nil, ScoreBandNone},
		{pf(0.3), ScoreBandHigh},
		{pf(0.03), ScoreBandHigh},
		{pf(-0.01), ScoreBandLow},
		{pf(-0.2), ScoreBandLow},
		{pf(0), ScoreBandNeutral},
	}
	for _, tc := range cases {
		if got := BandFor(tc.score); got != tc.want {
			t.Fatalf("BandFor(%v): got %q want %q", tc.score, got, tc.want)
		}
	}
}

func TestNameHueMatchesBrowserHash(t *testing.T) {
	cases := map[string]int{
		"":                     0,
		"alice":                0,
		"bob":                  157,
		"Bartholomew":          268,
		"Christopher Columbus": 81,
		"张伟":                   87,
		"😀x":                   229,
	}
	for name, want := range cases {
		if got := NameHue(name); got != want {
			t.Fatalf("NameHue(%q): got %d want %d", name, got, want)
		}
	}
}

func TestNameHueStable(t *testing.T) {
	a, b := NameHue("alice"), NameHue("alice")
	if a != b || a < 0 || a >= 360 {
		t.Fatalf("hue not stable or out of range: %d %d", a, b)
	}
}

func pf(v float64) *float64 { return &v }
