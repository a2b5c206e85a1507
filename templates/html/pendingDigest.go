package templates

import (
	"fmt"
	"strings"
)

// OverdueDays is the age from which a pending complaint is flagged as overdue
const OverdueDays = 7

// PendingItem is one stale complaint listed in the digest
type PendingItem struct {
	Title      string
	AuthorName string
	Category   string
	DaysOpen   int
}

// RenderPendingDigest builds the subject, plain text and HTML of the daily digest of
// complaints that have been Pending for at least minDays days. deskURL may be empty.
func RenderPendingDigest(items []PendingItem, minDays int, deskURL string) (subject, plainText, htmlContent string) {
	noun := "complaints"
	if len(items) == 1 {
		noun = "complaint"
	}
	subject = fmt.Sprintf("%d %s pending for %d+ days", len(items), noun, minDays)
	intro := fmt.Sprintf("These %s are still waiting for a first response:", noun)
	outro := "Sign in to CivicDesk to move them along."

	var b strings.Builder
	b.WriteString(intro + "\n\n")
	rows := make([]EmailRow, 0, len(items))
	for _, it := range items {
		age := fmt.Sprintf("%d %s", it.DaysOpen, days(it.DaysOpen))
		fmt.Fprintf(&b, "- %s (%s) from %s, open %s\n", it.Title, it.Category, it.AuthorName, age)

		tone := ToneWarning
		if it.DaysOpen >= OverdueDays {
			tone = ToneOverdue
		}
		rows = append(rows, EmailRow{
			Title:  it.Title,
			Detail: fmt.Sprintf("%s, filed by %s", it.Category, it.AuthorName),
			Badge:  age,
			Tone:   tone,
		})
	}
	b.WriteString("\n" + outro)
	if deskURL != "" {
		b.WriteString("\n" + deskURL)
	}

	plainText = b.String()
	htmlContent = Email{Subject: subject, Intro: intro, Rows: rows, Outro: outro, DeskURL: deskURL}.Render()
	return subject, plainText, htmlContent
}

func days(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
