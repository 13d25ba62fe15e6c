package models

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf16"
)

var contributorSep = regexp.MustCompile(`[,，、\s]+`)

// ParseContributors decodes the contributors field of a digest.
//
// The canonical encoding is a JSON array of strings. Anything that does not look like
// a JSON array is split on commas (ASCII and full-width), enumeration commas and
// whitespace. A value that looks like an array but does not decode returns an empty
// list together with an error wrapping ErrMalformedRecord.
func ParseContributors(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return nil, fmt.Errorf("%w: contributors: %v", ErrMalformedRecord, err)
		}
		return compactNames(names), nil
	}
	return compactNames(contributorSep.Split(raw, -1)), nil
}

// EncodeContributors renders names in the canonical JSON array encoding.
func EncodeContributors(names []string) string {
	b, _ := json.Marshal(compactNames(names))
	return string(b)
}

func compactNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ScoreBand buckets an interest score for display.
type ScoreBand string

const (
	ScoreBandNone    ScoreBand = ""
	ScoreBandLow     ScoreBand = "low"
	ScoreBandNeutral ScoreBand = "neutral"
	ScoreBandHigh    ScoreBand = "high"
)

// BandFor maps a score onto the red/grey/green scale used by the dashboard.
// Positive scores are high, negative are low and exactly zero is neutral.
func BandFor(score *float64) ScoreBand {
	if score == nil {
		return ScoreBandNone
	}
	switch s := *score; {
	case s > 0:
		return ScoreBandHigh
	case s < 0:
		return ScoreBandLow
	default:
		return ScoreBandNeutral
	}
}

// NameHue derives a stable hue in [0,360) from a participant name.
// It reproduces the browser's string hash: the accumulator is a float64 over
// UTF-16 code units and only the shift is done in 32 bits.
func NameHue(name string) int {
	var hash float64
	for _, c := range utf16.Encode([]rune(name)) {
		hash = float64(c) + (float64(toInt32(hash)<<5) - hash)
	}
	return int(math.Mod(math.Abs(hash), 360))
}

// toInt32 converts like a 32-bit integer cast of a double: truncate, then wrap modulo 2^32.
func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return int32(uint32(m))
}
