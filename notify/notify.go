// Package notify carries user-visible, non-blocking notifications from the
// client core to whatever surface renders them.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind tags a notification
type Kind int

// Notification kinds
const (
	Success Kind = iota
	Info
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Info:
		return "info"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Style is the rendering configuration for one notification kind
type Style struct {
	Kind     Kind
	Icon     string
	Prefix   string
	Duration time.Duration
}

// Styles enumerates the style of every kind. Unknown kinds fall back to Info.
var Styles = map[Kind]Style{
	Success: {Kind: Success, Icon: "✔", Prefix: "OK", Duration: 3 * time.Second},
	Info:    {Kind: Info, Icon: "ℹ", Prefix: "INFO", Duration: 3 * time.Second},
	Error:   {Kind: Error, Icon: "✖", Prefix: "ERROR", Duration: 5 * time.Second},
}

// StyleFor returns the style for k
func StyleFor(k Kind) Style {
	if s, ok := Styles[k]; ok {
		return s
	}
	return Styles[Info]
}

// Sink receives notifications. Implementations must not block the caller for long
// and must never panic.
type Sink interface {
	Notify(kind Kind, title, message string)
}

// Notification is one delivered notification
type Notification struct {
	Kind    Kind
	Title   string
	Message string
}

// Discard drops every notification
var Discard Sink = discard{}

type discard struct{}

func (discard) Notify(Kind, string, string) {}

// LogSink writes notifications to a zap logger
type LogSink struct {
	Log *zap.SugaredLogger
}

// Notify logs at warn for errors and info otherwise
func (s LogSink) Notify(kind Kind, title, message string) {
	if s.Log == nil {
		return
	}
	if kind == Error {
		s.Log.Warnw(title, "kind", kind.String(), "message", message)
		return
	}
	s.Log.Infow(title, "kind", kind.String(), "message", message)
}

// WriterSink prints notifications as single styled lines
type WriterSink struct {
	mu sync.Mutex
	W  io.Writer
}

// Notify writes "<icon> <PREFIX> title: message"
func (s *WriterSink) Notify(kind Kind, title, message string) {
	st := StyleFor(kind)
	s.mu.Lock()
	defer s.mu.Unlock()
	if message == "" {
		fmt.Fprintf(s.W, "%s %s %s\n", st.Icon, st.Prefix, title)
		return
	}
	fmt.Fprintf(s.W, "%s %s %s: %s\n", st.Icon, st.Prefix, title, message)
}

// Recorder keeps every notification it receives
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Notify records the notification
func (r *Recorder) Notify(kind Kind, title, message string) {
	r.mu.Lock()
	r.sent = append(r.sent, Notification{Kind: kind, Title: title, Message: message})
	r.mu.Unlock()
}

// All returns a copy of everything recorded so far
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// Count returns how many notifications of kind were recorded
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// Fanout delivers to every sink in order
type Fanout []Sink

// Notify forwards to each sink
func (f Fanout) Notify(kind Kind, title, message string) {
	for _, s := range f {
		s.Notify(kind, title, message)
	}
}
