// Package notify carries user-facing notifications from the widget to
// whatever front end displays them.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Kind is the severity of a notification.
type Kind string

// Notification kinds.
const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Position is the screen corner a toast is anchored to.
type Position string

// Positions.
const (
	TopRight    Position = "topR"
	TopLeft     Position = "topL"
	BottomRight Position = "bottomR"
	BottomLeft  Position = "bottomL"
)

// IconBell is the bell glyph used for transaction notifications.
const IconBell = "🔔"

// Notification is one toast.
type Notification struct {
	Kind     Kind
	Title    string
	Message  string
	Position Position
	Icon     string
}

// TxComplete is dispatched once a raffle entry has its confirmation.
func TxComplete() Notification {
	return Notification{
		Kind:     KindInfo,
		Title:    "Tx Notification",
		Message:  "Transaction Complete!",
		Position: TopRight,
		Icon:     IconBell,
	}
}

// String renders the notification on one line.
func (n Notification) String() string {
	if n.Icon == "" {
		return fmt.Sprintf("%s: %s", n.Title, n.Message)
	}
	return fmt.Sprintf("%s %s: %s", n.Icon, n.Title, n.Message)
}

// Sink receives notifications.
type Sink interface {
	Dispatch(Notification)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Notification)

// Dispatch calls f(n).
func (f SinkFunc) Dispatch(n Notification) { f(n) }

// Discard drops every notification.
var Discard Sink = SinkFunc(func(Notification) {})

// WriterSink prints each notification as a line on w.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	render func(Notification) string
}

// NewWriterSink creates a WriterSink. render may be nil for plain text.
func NewWriterSink(w io.Writer, render func(Notification) string) *WriterSink {
	if render == nil {
		render = Notification.String
	}
	return &WriterSink{w: w, render: render}
}

// Dispatch writes n.
func (s *WriterSink) Dispatch(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, s.render(n))
}

// Recorder keeps every dispatched notification in order.
type Recorder struct {
	mu  sync.Mutex
	got []Notification
}

// Dispatch records n.
func (r *Recorder) Dispatch(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.got...)
}
