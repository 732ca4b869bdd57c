// Package notice manages the single transient banner shown at the top of a page.
package notice

import (
	"bytes"
	"html/template"
	"sync"
	"time"

	"github.com/skillvine/frontend/shared/logger"
)

const ElementID = "top-notice"

type Kind string

const (
	Success Kind = "success"
	Info    Kind = "info"
	Warning Kind = "warning"
)

func (k Kind) valid() bool {
	switch k {
	case Success, Info, Warning:
		return true
	}
	return false
}

// Notice is the banner currently on display.
type Notice struct {
	Message  string
	Kind     Kind
	Duration time.Duration
}

// Class is the css class list of the banner. Unknown kinds add no class.
func (n Notice) Class() string {
	class := "top-notice alert show"
	if n.Kind.valid() {
		class += " " + string(n.Kind)
	}
	return class
}

// Service holds at most one banner. Showing a new banner replaces the old one
// and a timer from an older banner never removes a newer one.
type Service struct {
	mu         sync.Mutex
	current    *Notice
	generation uint64
	timer      *time.Timer
	closed     bool
}

func New() *Service {
	return &Service{}
}

// Show replaces the banner and, when duration > 0, schedules its removal.
func (s *Service) Show(message string, kind Kind, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.stopTimer()
	s.generation++
	s.current = &Notice{Message: message, Kind: kind, Duration: duration}

	if duration > 0 {
		gen := s.generation
		s.timer = time.AfterFunc(duration, func() { s.expire(gen) })
	}
}

func (s *Service) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return
	}
	s.current = nil
	s.timer = nil
}

// Hide removes the banner, if any.
func (s *Service) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimer()
	s.generation++
	s.current = nil
}

// Current returns a copy of the banner on display.
func (s *Service) Current() (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Notice{}, false
	}
	return *s.current, true
}

// Count is the number of banners on display, 0 or 1.
func (s *Service) Count() int {
	if _, ok := s.Current(); ok {
		return 1
	}
	return 0
}

// Close tears the service down with its page. Pending timers are stopped and
// later calls to Show are ignored.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimer()
	s.closed = true
}

func (s *Service) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

var bannerTmpl = template.Must(template.New("notice").Parse(
	`<div id="{{.ID}}" class="{{.Class}}" role="status"{{if .DurationMS}} data-duration="{{.DurationMS}}"{{end}}>` +
		`<span class="notice-message">{{.Message}}</span>` +
		`<button type="button" class="closebtn" aria-label="Close">&times;</button>` +
		`</div>`))

// Render returns the banner markup with the message escaped, or "" when
// nothing is on display.
func (s *Service) Render() template.HTML {
	n, ok := s.Current()
	if !ok {
		return ""
	}

	var buf bytes.Buffer
	err := bannerTmpl.Execute(&buf, struct {
		ID         string
		Class      string
		Message    string
		DurationMS int64
	}{ElementID, n.Class(), n.Message, n.Duration.Milliseconds()})
	if err != nil {
		logger.Log.Error("rendering notice", "error", err)
		return ""
	}
	return template.HTML(buf.String())
}
