package capture

import (
	"time"
)

// Artifact describes one captured file (screenshot or webcam photo)
type Artifact struct {
	Filename string
	Path     string
	TakenAt  time.Time
}

// Screenshotter takes a screenshot of the primary display
type Screenshotter interface {
	CaptureScreenshot(dir string) (*Artifact, error)
}

// WebcamCapturer takes a photo from the default webcam
type WebcamCapturer interface {
	CaptureWebcamPhoto(dir string) (*Artifact, error)
}

// TabCollector snapshots the titles of open browser tabs
type TabCollector interface {
	CollectBrowserTabs(maxTabs int) ([]string, error)
}

// WindowTitler reports the title of the currently focused window
type WindowTitler interface {
	ActiveWindowTitle() (string, error)
}

// Suite bundles the platform capture collaborators. Any field may be nil
// when the platform integration is not available.
type Suite struct {
	Screenshot Screenshotter
	Webcam     WebcamCapturer
	Tabs       TabCollector
	Windows    WindowTitler
}

// NopSuite returns a suite with no platform integrations wired
func NopSuite() Suite {
	return Suite{}
}
