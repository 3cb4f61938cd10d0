package conversation

import "github.com/longkey1/aistrobot/internal/aistrobot"

// State is the lifecycle of one submission.
type State int

const (
	Awaiting State = iota
	Answered
	Unanswered
)

func (s State) String() string {
	switch s {
	case Awaiting:
		return "awaiting"
	case Answered:
		return "answered"
	case Unanswered:
		return "unanswered"
	default:
		return "unknown"
	}
}

// Exchange links a user turn to the outcome of its completion request.
type Exchange struct {
	Question aistrobot.Turn
	Answer   aistrobot.Turn // zero unless State is Answered
	State    State
	Err      error // set when State is Unanswered
}

// Result is delivered once per submission when its request resolves.
type Result struct {
	Question aistrobot.Turn
	Answer   aistrobot.Turn
	Err      error
}

// Answered reports whether the request succeeded.
func (r Result) Answered() bool {
	return r.Err == nil
}

// Stats counts exchanges by state.
type Stats struct {
	Awaiting   int
	Answered   int
	Unanswered int
}

// Count tallies the given exchanges.
func Count(exchanges []Exchange) Stats {
	var s Stats
	for _, e := range exchanges {
		switch e.State {
		case Awaiting:
			s.Awaiting++
		case Answered:
			s.Answered++
		case Unanswered:
			s.Unanswered++
		}
	}
	return s
}
