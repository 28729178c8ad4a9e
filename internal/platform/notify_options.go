// Package platform hides the desktop notification mechanism of each OS.
package platform

import "time"

// DefaultAppName is reported to notification daemons that group by sender.
const DefaultAppName = "champimark"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender; DefaultAppName when empty.
	AppName string
	// IconPath, when non-empty, points to an image file shown next to the
	// message where the platform supports it.
	IconPath string
	// Timeout is how long the message stays visible; zero leaves it to the
	// platform.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}
