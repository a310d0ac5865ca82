// Package metrics normalizes raw call metrics and formats them for display.
package metrics

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Raw carries metric values as received from the call daemon. Any field may be absent.
type Raw struct {
	DurationSeconds  *int64 `json:"durationSeconds,omitempty"`
	WordsPerMinute   *int64 `json:"wordsPerMinute,omitempty"`
	TalkRatioPercent *int64 `json:"talkRatioPercent,omitempty"`
	FillerWordCount  *int64 `json:"fillerWordCount,omitempty"`
}

// Metrics is the normalized form of Raw. Absent values are zero.
type Metrics struct {
	DurationSeconds  uint
	WordsPerMinute   uint
	TalkRatioPercent uint // 0-100
	FillerWordCount  uint
}

// Display holds the rendered strings for each metric.
type Display struct {
	Duration       string
	WordsPerMinute string
	TalkRatio      string
	FillerWords    string
}

// Int64 returns a pointer to v. Convenience for building Raw values.
func Int64(v int64) *int64 { return &v }

// Normalize clamps raw values into range. Negative values become zero and the
// talk ratio is capped at 100.
func Normalize(r Raw) Metrics {
	m := Metrics{
		DurationSeconds: clamp(r.DurationSeconds),
		WordsPerMinute:  clamp(r.WordsPerMinute),
		FillerWordCount: clamp(r.FillerWordCount),
	}
	m.TalkRatioPercent = min(clamp(r.TalkRatioPercent), 100)
	return m
}

// Format renders raw metrics for display.
func Format(r Raw) Display {
	return Normalize(r).Display()
}

// Display renders normalized metrics.
func (m Metrics) Display() Display {
	return Display{
		Duration:       FormatDuration(m.DurationSeconds),
		WordsPerMinute: fmt.Sprintf("%d", m.WordsPerMinute),
		TalkRatio:      fmt.Sprintf("%d%%", m.TalkRatioPercent),
		FillerWords:    fmt.Sprintf("%d", m.FillerWordCount),
	}
}

// FormatDuration renders seconds as MM:SS. Minutes are not wrapped into hours.
func FormatDuration(seconds uint) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func clamp(v *int64) uint {
	if v == nil || *v < 0 {
		return 0
	}
	return uint(*v)
}

// fillerWords are matched case-insensitively against single words.
var fillerWords = map[string]bool{
	"um":   true,
	"umm":  true,
	"uh":   true,
	"uhh":  true,
	"er":   true,
	"ah":   true,
	"hmm":  true,
	"like": true,
}

// fillerPhrases are matched as consecutive word pairs.
var fillerPhrases = [][2]string{
	{"you", "know"},
	{"i", "mean"},
	{"sort", "of"},
	{"kind", "of"},
}

// FromTranscript estimates metrics from transcript text and elapsed recording
// time. Talk ratio needs speaker attribution and is left absent.
func FromTranscript(text string, elapsed time.Duration) Raw {
	words := tokenize(text)

	var fillers int64
	for i := 0; i < len(words); i++ {
		if fillerWords[words[i]] {
			fillers++
			continue
		}
		if i+1 < len(words) {
			for _, p := range fillerPhrases {
				if words[i] == p[0] && words[i+1] == p[1] {
					fillers++
					i++
					break
				}
			}
		}
	}

	secs := int64(elapsed / time.Second)
	if secs < 0 {
		secs = 0
	}
	var wpm int64
	if secs > 0 {
		wpm = int64(len(words)) * 60 / secs
	}

	return Raw{
		DurationSeconds: Int64(secs),
		WordsPerMinute:  Int64(wpm),
		FillerWordCount: Int64(fillers),
	}
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := fields[:0]
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
