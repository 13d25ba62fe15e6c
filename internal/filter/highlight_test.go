package filter

import (
	"reflect"
	"testing"
)

func kinds(segs []Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Kind + ":" + s.Text
	}
	return out
}

func TestHighlightMentionsAndLinks(t *testing.T) {
	got := kinds(Highlight("ping @alice see https://example.com/a?b=1 ok"))
	want := []string{
		"text:ping ",
		"mention:@alice",
		"text: see ",
		"link:https://example.com/a?b=1",
		"text: ok",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q", got)
	}
}

func TestHighlightLinkSwallowsAt(t *testing.T) {
	got := kinds(Highlight("https://host/@bob"))
	if !reflect.DeepEqual(got, []string{"link:https://host/@bob"}) {
		t.Fatalf("got %q", got)
	}
}

func TestHighlightBareContributorNames(t *testing.T) {
	segs := Highlight("bob and bobby agreed", "bob", "bobby")
	got := kinds(segs)
	want := []string{"mention:bob", "text: and ", "mention:bobby", "text: agreed"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q", got)
	}
	if segs[0].Name != "bob" || segs[2].Name != "bobby" {
		t.Fatalf("unexpected names %+v", segs)
	}
}

func TestHighlightPlainText(t *testing.T) {
	if got := Highlight(""); len(got) != 0 {
		t.Fatalf("expected no segments, got %v", got)
	}
	got := kinds(Highlight("nothing here"))
	if !reflect.DeepEqual(got, []string{"text:nothing here"}) {
		t.Fatalf("got %q", got)
	}
}
