package template

import (
	"context"
	"errors"
)

// State is a step of a prompt session.
type State int

const (
	Idle State = iota
	Extracting
	Prompting
	Substituting
	Done
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Extracting:
		return "extracting"
	case Prompting:
		return "prompting"
	case Substituting:
		return "substituting"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

var (
	// ErrCancelled is returned by a Prompter when the user backs out.
	ErrCancelled = errors.New("prompt cancelled")
	// ErrNotPrompting is returned by Provide outside the Prompting state.
	ErrNotPrompting = errors.New("session is not prompting")
)

// Session collects one value per distinct placeholder of a command, in
// first-occurrence order, then produces the filled-in command.
type Session struct {
	engine  Engine
	command string
	names   []string
	index   int
	values  map[string]string
	state   State
	result  string
}

// Start begins a session for cmd. A command without placeholders is Done
// immediately and its result is cmd unchanged.
func (e Engine) Start(cmd string) *Session {
	s := &Session{engine: e, command: cmd, state: Idle}

	s.state = Extracting
	s.names = e.Extract(cmd)
	s.values = make(map[string]string, len(s.names))

	if len(s.names) == 0 {
		s.substitute()
	} else {
		s.state = Prompting
	}
	return s
}

// NewSession starts a session with the Default engine.
func NewSession(cmd string) *Session {
	return Default.Start(cmd)
}

func (s *Session) substitute() {
	s.state = Substituting
	s.result = s.engine.Substitute(s.command, s.values)
	s.state = Done
}

func (s *Session) State() State { return s.state }

func (s *Session) Command() string { return s.command }

// Names returns the placeholder names in prompt order.
func (s *Session) Names() []string {
	return append([]string(nil), s.names...)
}

// Index is the position of the placeholder currently being prompted for.
func (s *Session) Index() int { return s.index }

func (s *Session) Total() int { return len(s.names) }

// Current returns the placeholder awaiting a value.
func (s *Session) Current() (string, bool) {
	if s.state != Prompting {
		return "", false
	}
	return s.names[s.index], true
}

// Provide records the value for the current placeholder. An empty string is
// a valid value.
func (s *Session) Provide(value string) error {
	if s.state != Prompting {
		return ErrNotPrompting
	}
	s.values[s.names[s.index]] = value
	s.index++
	if s.index == len(s.names) {
		s.substitute()
	}
	return nil
}

// Cancel ends the session and drops every captured value.
func (s *Session) Cancel() {
	if s.state == Done || s.state == Cancelled {
		return
	}
	s.values = nil
	s.state = Cancelled
}

// Result returns the filled-in command once the session is Done.
func (s *Session) Result() (string, bool) {
	if s.state != Done {
		return "", false
	}
	return s.result, true
}

// Preview substitutes the values captured so far.
func (s *Session) Preview() string {
	return s.engine.Substitute(s.command, s.values)
}

// Request describes one value the user is asked for.
type Request struct {
	Name    string `json:"name"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Preview string `json:"preview"`
}

func (s *Session) Request() (Request, bool) {
	name, ok := s.Current()
	if !ok {
		return Request{}, false
	}
	return Request{Name: name, Index: s.index, Total: len(s.names), Preview: s.Preview()}, true
}

// Prompter asks the user for one placeholder value and blocks until it is
// given. Returning ErrCancelled ends the session without a result.
type Prompter interface {
	Prompt(ctx context.Context, req Request) (string, error)
}

type PrompterFunc func(ctx context.Context, req Request) (string, error)

func (f PrompterFunc) Prompt(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Run drives a session to completion, prompting once per distinct
// placeholder. ok is false when the user cancelled; that is not an error.
func (e Engine) Run(ctx context.Context, cmd string, p Prompter) (result string, ok bool, err error) {
	s := e.Start(cmd)
	for s.State() == Prompting {
		if ctx.Err() != nil {
			s.Cancel()
			return "", false, nil
		}
		req, _ := s.Request()
		value, err := p.Prompt(ctx, req)
		if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.Cancel()
			return "", false, nil
		}
		if err != nil {
			s.Cancel()
			return "", false, err
		}
		s.Provide(value)
	}
	result, ok = s.Result()
	return result, ok, nil
}
