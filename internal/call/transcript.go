package call

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WaitingText is shown in place of a transcript that has no content yet.
const WaitingText = "Waiting for transcript..."

// TranscriptView is what the UI renders for the transcript. Waiting is set
// when nothing has been transcribed yet, and Text is then empty.
type TranscriptView struct {
	Waiting bool
	Text    string
}

// String returns the transcript text, or WaitingText while waiting.
func (v TranscriptView) String() string {
	if v.Waiting {
		return WaitingText
	}
	return v.Text
}

// Transcript accumulates transcript deltas for one call. It is not safe for
// concurrent use; Session serializes access.
type Transcript struct {
	text string
}

// Append adds delta to the transcript. Deltas are joined with a single space
// unless the transcript is empty, already ends in whitespace, or delta begins
// with whitespace. Blank deltas are ignored and Append reports false.
func (t *Transcript) Append(delta string) bool {
	if strings.TrimSpace(delta) == "" {
		return false
	}
	if t.text == "" {
		t.text = strings.TrimLeftFunc(delta, unicode.IsSpace)
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(t.text)
	first, _ := utf8.DecodeRuneInString(delta)
	if !unicode.IsSpace(last) && !unicode.IsSpace(first) {
		t.text += " "
	}
	t.text += delta
	return true
}

// Text returns the raw accumulated text.
func (t *Transcript) Text() string {
	return t.text
}

// View returns the display state of the transcript.
func (t *Transcript) View() TranscriptView {
	if t.text == "" {
		return TranscriptView{Waiting: true}
	}
	return TranscriptView{Text: t.text}
}

// Words returns the number of whitespace separated words.
func (t *Transcript) Words() int {
	return len(strings.Fields(t.text))
}

// Reset clears the transcript.
func (t *Transcript) Reset() {
	t.text = ""
}
