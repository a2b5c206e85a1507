package listsync

import "fmt"

// State is where a list instance is in its fetch cycle
type State int

// List states. Closed is terminal: the owning view went away.
const (
	Idle State = iota
	Loading
	Refreshing
	Loaded
	Failed
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Refreshing:
		return "refreshing"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// InFlight reports whether a fetch is outstanding in s
func (s State) InFlight() bool {
	return s == Loading || s == Refreshing
}

// Event drives a state transition
type Event int

// Events. Load, Refresh and Reload issue a fetch when accepted; Succeeded and
// Failed settle one.
const (
	EventLoad Event = iota
	EventRefresh
	EventReload
	EventSucceeded
	EventFailed
	EventClose
)

func (e Event) String() string {
	switch e {
	case EventLoad:
		return "load"
	case EventRefresh:
		return "refresh"
	case EventReload:
		return "reload"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	case EventClose:
		return "close"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Next is the transition function of a list. It returns the next state and
// whether e is accepted in s; a rejected event leaves the list untouched.
//
//	Idle, Failed  --load-->    Loading
//	Loaded        --refresh--> Refreshing
//	Failed        --refresh--> Refreshing
//	Idle, Failed  --reload-->  Loading
//	Loaded        --reload-->  Refreshing
//	in flight     --reload-->  unchanged (the new fetch supersedes the old one)
//	in flight     --succeeded--> Loaded
//	in flight     --failed-->    Failed
//	any but Closed --close-->    Closed
func Next(s State, e Event) (State, bool) {
	if s == Closed {
		return Closed, false
	}
	switch e {
	case EventLoad:
		if s == Idle || s == Failed {
			return Loading, true
		}
	case EventRefresh:
		if s == Loaded || s == Failed {
			return Refreshing, true
		}
	case EventReload:
		switch s {
		case Idle, Failed:
			return Loading, true
		case Loaded:
			return Refreshing, true
		case Loading, Refreshing:
			return s, true
		}
	case EventSucceeded:
		if s.InFlight() {
			return Loaded, true
		}
	case EventFailed:
		if s.InFlight() {
			return Failed, true
		}
	case EventClose:
		return Closed, true
	}
	return s, false
}
