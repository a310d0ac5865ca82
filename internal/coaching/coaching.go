// Package coaching classifies live recommendations into display treatments.
package coaching

// Kind is the category a recommendation was issued under.
type Kind string

const (
	KindSuggestion Kind = "suggestion"
	KindWarning    Kind = "warning"
	KindTip        Kind = "tip"
)

// Recommendation is a single coaching hint. IDs are unique within a set.
type Recommendation struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Style is the display token a recommendation is rendered with.
type Style string

const (
	StyleSuggestion Style = "suggestion"
	StyleWarning    Style = "warning"
	StyleTip        Style = "tip"
	StyleDefault    Style = "default"
)

var styles = map[Kind]Style{
	KindSuggestion: StyleSuggestion,
	KindWarning:    StyleWarning,
	KindTip:        StyleTip,
}

var labels = map[Style]string{
	StyleSuggestion: "Suggestion",
	StyleWarning:    "Warning",
	StyleTip:        "Tip",
	StyleDefault:    "Note",
}

// StyleFor returns the style for kind. Unknown kinds get StyleDefault.
func StyleFor(kind Kind) Style {
	if s, ok := styles[kind]; ok {
		return s
	}
	return StyleDefault
}

// Label returns the short heading shown next to an entry.
func (s Style) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return labels[StyleDefault]
}

// Entry is a recommendation paired with its style.
type Entry struct {
	ID      string
	Style   Style
	Message string
}

// Section is a non-empty, ordered list of styled entries.
type Section struct {
	Entries []Entry
}

// Classify maps recs to styled entries in insertion order. It returns false
// when recs is empty so the caller omits the section entirely.
func Classify(recs []Recommendation) (Section, bool) {
	if len(recs) == 0 {
		return Section{}, false
	}
	entries := make([]Entry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, Entry{
			ID:      r.ID,
			Style:   StyleFor(r.Kind),
			Message: r.Message,
		})
	}
	return Section{Entries: entries}, true
}
