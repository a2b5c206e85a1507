package models

import (
	"strings"
	"sync"
)

// Tone is the presentation class a status or category renders with
type Tone int

// Tones in increasing order of urgency. ToneNeutral is the default for anything
// that is not recognised.
const (
	ToneNeutral Tone = iota
	ToneInfo
	ToneWarning
	ToneSuccess
	ToneDanger
)

func (t Tone) String() string {
	switch t {
	case ToneInfo:
		return "info"
	case ToneWarning:
		return "warning"
	case ToneSuccess:
		return "success"
	case ToneDanger:
		return "danger"
	default:
		return "neutral"
	}
}

// Presentation is what a list renderer needs to draw a status or category badge
type Presentation struct {
	Key   string
	Label string
	Tone  Tone
}

// UnknownStatus is returned by ClassifyStatus for unrecognised input
var UnknownStatus = Presentation{Key: "unknown", Label: "Unknown", Tone: ToneNeutral}

// OtherCategory is the neutral category; unrecognised categories render as it
var OtherCategory = Presentation{Key: "other", Label: "Other", Tone: ToneNeutral}

var statusClasses = map[string]Presentation{
	normalize(string(StatusPending)):    {Key: "pending", Label: "Pending", Tone: ToneWarning},
	normalize(string(StatusInProgress)): {Key: "in-progress", Label: "In Progress", Tone: ToneInfo},
	normalize(string(StatusResolved)):   {Key: "resolved", Label: "Resolved", Tone: ToneSuccess},
	normalize(string(StatusRejected)):   {Key: "rejected", Label: "Rejected", Tone: ToneDanger},
}

var (
	categoryMu      sync.RWMutex
	categoryClasses = map[string]Presentation{
		"noise":     {Key: "noise", Label: "Noise", Tone: ToneWarning},
		"garbage":   {Key: "garbage", Label: "Garbage", Tone: ToneInfo},
		"vandalism": {Key: "vandalism", Label: "Vandalism", Tone: ToneDanger},
		"other":     OtherCategory,
	}
)

// ClassifyStatus maps any string to a status presentation. It never fails.
func ClassifyStatus(raw string) Presentation {
	if p, ok := statusClasses[normalize(raw)]; ok {
		return p
	}
	return UnknownStatus
}

// ClassifyCategory maps any string to a category presentation. It never fails.
func ClassifyCategory(raw string) Presentation {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	if p, ok := categoryClasses[normalize(raw)]; ok {
		return p
	}
	return OtherCategory
}

// RegisterCategory adds or replaces a category presentation
func RegisterCategory(name, label string, tone Tone) {
	key := normalize(name)
	if key == "" {
		return
	}
	categoryMu.Lock()
	categoryClasses[key] = Presentation{Key: key, Label: label, Tone: tone}
	categoryMu.Unlock()
}

// Categories returns the keys of every known category
func Categories() []string {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	keys := make([]string, 0, len(categoryClasses))
	for k := range categoryClasses {
		keys = append(keys, k)
	}
	return keys
}

// normalize lowercases and drops whitespace, '_' and '-'
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '\n', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
