// Package notify tells the user, through the desktop, that annotations or
// annotated images were written somewhere.
package notify

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/champimark/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when an annotations file is written.
	EventSave Event = "save"
	// EventExport fires when an annotated image is written.
	EventExport Event = "export"
	// EventCopy fires when annotations or an image reach the clipboard.
	EventCopy Event = "copy"
)

// Events lists every event in a stable order.
var Events = []Event{EventSave, EventExport, EventCopy}

// Preferences describes notification behaviour.
type Preferences struct {
	Title     string
	Timeout   time.Duration
	Templates map[Event]string
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title:   "Champimark",
		Timeout: 5 * time.Second,
		Templates: map[Event]string{
			EventSave:   "Saved annotations to %s",
			EventExport: "Exported %s",
			EventCopy:   "Copied %s to clipboard",
		},
	}
}

// LoadPreferences applies CHAMPIMARK_NOTIFY_* environment overrides to the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("CHAMPIMARK_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, ev := range Events {
		key := "CHAMPIMARK_NOTIFY_" + strings.ToUpper(string(ev)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Templates[ev] = v
		}
	}
	return prefs
}

// Sender delivers one message; platform.Notify by default.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends desktop notifications for enabled events. A nil Notifier
// is valid and silent.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces the delivery function.
func WithSender(s Sender) Option { return func(n *Notifier) { n.send = s } }

// New creates a Notifier with every event disabled.
func New(prefs Preferences, opts ...Option) *Notifier {
	n := &Notifier{
		prefs:   Preferences{Title: prefs.Title, Timeout: prefs.Timeout, Templates: make(map[Event]string, len(prefs.Templates))},
		enabled: make(map[Event]bool),
		send:    platform.Notify,
	}
	for k, v := range prefs.Templates {
		n.prefs.Templates[k] = v
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Enabled reports whether event produces notifications.
func (n *Notifier) Enabled(event Event) bool {
	return n != nil && n.enabled[event]
}

// Save reports an annotations file written to path.
func (n *Notifier) Save(path string) {
	n.dispatch(EventSave, absolute(path), platform.Options{})
}

// Export reports an annotated image written to path, using the image as the
// notification icon.
func (n *Notifier) Export(path string) {
	abs := absolute(path)
	opts := platform.Options{}
	if _, err := os.Stat(abs); err == nil {
		opts.IconPath = abs
	}
	n.dispatch(EventExport, abs, opts)
}

// Copy reports a clipboard write. what names the copied content.
func (n *Notifier) Copy(what string) {
	if strings.TrimSpace(what) == "" {
		what = "image"
	}
	n.dispatch(EventCopy, what, platform.Options{})
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return strings.TrimSpace(path)
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.Enabled(event) || n.send == nil {
		return
	}
	tmpl := strings.TrimSpace(n.prefs.Templates[event])
	if tmpl == "" {
		return
	}
	body := tmpl
	if strings.Contains(tmpl, "%") {
		body = fmt.Sprintf(tmpl, strings.TrimSpace(detail))
	}
	opts.Timeout = n.prefs.Timeout
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}
