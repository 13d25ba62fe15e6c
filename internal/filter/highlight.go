package filter

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mohammad-safakhou/digestboard/models"
)

// Segment kinds.
const (
	SegmentText    = "text"
	SegmentMention = "mention"
	SegmentLink    = "link"
)

// Segment is a run of detail text with its display kind.
type Segment struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	// Name and Hue are set for mentions.
	Name string `json:"name,omitempty"`
	Hue  int    `json:"hue,omitempty"`
}

const basePattern = `https?://[^\s]+|@[^\s@]+`

var baseRe = regexp.MustCompile(basePattern)

// Highlight splits detail into text, @mention and link segments. Bare
// occurrences of any of names are reported as mentions too.
func Highlight(detail string, names ...string) []Segment {
	re := baseRe
	if extra := namePattern(names); extra != "" {
		re = regexp.MustCompile(basePattern + "|" + extra)
	}

	var out []Segment
	last := 0
	for _, loc := range re.FindAllStringIndex(detail, -1) {
		if loc[0] > last {
			out = append(out, Segment{Kind: SegmentText, Text: detail[last:loc[0]]})
		}
		tok := detail[loc[0]:loc[1]]
		switch {
		case strings.HasPrefix(tok, "http://") || strings.HasPrefix(tok, "https://"):
			out = append(out, Segment{Kind: SegmentLink, Text: tok})
		default:
			name := strings.TrimPrefix(tok, "@")
			out = append(out, Segment{Kind: SegmentMention, Text: tok, Name: name, Hue: models.NameHue(name)})
		}
		last = loc[1]
	}
	if last < len(detail) {
		out = append(out, Segment{Kind: SegmentText, Text: detail[last:]})
	}
	return out
}

func namePattern(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || strings.HasPrefix(n, "http") {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(n))
	}
	// Longest first so a name is not shadowed by its own prefix.
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return strings.Join(quoted, "|")
}
