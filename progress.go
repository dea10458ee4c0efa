// Progress indicators for batch runs.
// When -o or -d is given, stdout is free for user-facing progress display.
package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
)

// progressOut is the writer for progress indicators. Set to os.Stdout when
// output goes to files (stdout is not used for content). In all other cases
// (stdout mode or --silent) it is io.Discard.
var progressOut io.Writer = io.Discard

// progressMu serialises writes to progressOut so concurrent batch workers
// don't interleave output lines.
var progressMu sync.Mutex

// pprintf writes a formatted progress line to progressOut, holding the
// mutex to prevent interleaving from concurrent goroutines.
func pprintf(format string, args ...any) {
	progressMu.Lock()
	defer progressMu.Unlock()
	fmt.Fprintf(progressOut, format, args...)
}

// shortInput returns a compact display form of an input argument: host +
// trimmed path for URLs, the argument itself otherwise. Truncated to 60
// characters with "..." if needed.
func shortInput(arg string) string {
	display := arg
	if isRemote(arg) {
		if u, err := url.Parse(arg); err == nil {
			display = strings.TrimSuffix(u.Host+u.Path, "/")
		}
	}
	if len(display) > 60 {
		display = display[:57] + "..."
	}
	return display
}
