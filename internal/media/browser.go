package media

import (
	"io"

	"github.com/pkg/browser"
)

func init() {
	// the TUI owns the terminal
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// OpenURL opens url in the system browser.
var OpenURL = browser.OpenURL
