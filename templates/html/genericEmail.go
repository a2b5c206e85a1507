package templates

import (
	"html"
	"html/template"
	"strings"
)

// Tone colours a badge in the email layout
type Tone string

// Badge tones
const (
	ToneNeutral Tone = "neutral"
	ToneWarning Tone = "warning"
	ToneOverdue Tone = "overdue"
)

// EmailRow is one complaint line in a CivicDesk email
type EmailRow struct {
	Title  string
	Detail string
	Badge  string
	Tone   Tone
}

// Email is a CivicDesk notification for the administrators of a desk
type Email struct {
	Subject string
	// Intro and Outro are plain text; each line becomes a paragraph
	Intro string
	Rows  []EmailRow
	Outro string
	// DeskURL, when set, adds an "Open CivicDesk" button
	DeskURL string
}

var emailTemplate = template.Must(template.New("email").Funcs(template.FuncMap{
	"lines": func(s string) []string {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return strings.Split(s, "\n")
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Subject}}</title>
  <style type="text/css">
    body { font-family: Arial, Helvetica, sans-serif; margin: 0; padding: 0; background-color: #f1f5f4; }
    .desk { max-width: 620px; margin: 24px auto; background-color: #ffffff; border: 1px solid #d5e3e0; border-radius: 6px; }
    .masthead { background-color: #0f766e; padding: 18px 28px; color: #ffffff; }
    .masthead small { display: block; font-size: 11px; letter-spacing: 2px; text-transform: uppercase; opacity: 0.8; }
    .masthead h1 { margin: 4px 0 0; font-size: 20px; }
    .body { padding: 24px 28px; color: #1f2937; font-size: 14px; line-height: 1.5; }
    table.queue { width: 100%; border-collapse: collapse; margin: 12px 0; }
    table.queue td { padding: 8px 6px; border-bottom: 1px solid #e5ecea; vertical-align: top; }
    .detail { color: #6b7280; font-size: 12px; }
    .badge { white-space: nowrap; border-radius: 10px; padding: 2px 8px; font-size: 12px; }
    .neutral { background-color: #e5ecea; color: #374151; }
    .warning { background-color: #fef3c7; color: #92400e; }
    .overdue { background-color: #fee2e2; color: #991b1b; }
    .action { display: inline-block; margin-top: 8px; padding: 10px 18px; background-color: #0f766e; color: #ffffff; text-decoration: none; border-radius: 4px; }
    .footer { padding: 16px 28px; color: #6b7280; font-size: 11px; border-top: 1px solid #e5ecea; }
  </style>
</head>
<body>
  <div class="desk">
    <div class="masthead">
      <small>CivicDesk</small>
      <h1>{{.Subject}}</h1>
    </div>
    <div class="body">
      {{range lines .Intro}}<p>{{.}}</p>{{end}}
      {{if .Rows}}<table class="queue">
        {{range .Rows}}<tr>
          <td><strong>{{.Title}}</strong>{{if .Detail}}<br><span class="detail">{{.Detail}}</span>{{end}}</td>
          <td align="right">{{if .Badge}}<span class="badge {{.Tone}}">{{.Badge}}</span>{{end}}</td>
        </tr>{{end}}
      </table>{{end}}
      {{range lines .Outro}}<p>{{.}}</p>{{end}}
      {{if .DeskURL}}<a class="action" href="{{.DeskURL}}">Open CivicDesk</a>{{end}}
    </div>
    <div class="footer">
      You receive this because you administer a CivicDesk complaint desk. Residents are
      not copied on these messages.
    </div>
  </div>
</body>
</html>`))

// Render builds the HTML for e. Should the layout fail, the plain text is sent
// as preformatted HTML instead.
func (e Email) Render() string {
	rows := make([]EmailRow, len(e.Rows))
	for i, r := range e.Rows {
		if r.Tone == "" {
			r.Tone = ToneNeutral
		}
		rows[i] = r
	}
	e.Rows = rows
	var b strings.Builder
	if err := emailTemplate.Execute(&b, e); err != nil {
		return "<pre>" + html.EscapeString(e.Subject+"\n\n"+e.Intro+"\n"+e.Outro) + "</pre>"
	}
	return b.String()
}

// RenderGenericEmail wraps plain text in the CivicDesk layout
func RenderGenericEmail(subject, bodyContent string) string {
	return Email{Subject: subject, Intro: bodyContent}.Render()
}
