package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/gkampitakis/ciinfo"
	"github.com/mattn/go-isatty"
)

// startRenderSpinner shows a spinner on stderr while the HTML pages are
// written. The returned func stops it and clears the line. On CI and
// non-interactive stderr only a single note is printed.
func startRenderSpinner(fileCount int) func() {
	if fileCount <= 0 {
		return func() {}
	}

	msg := renderSpinnerMessage(fileCount)
	if ciinfo.IsCI || !isatty.IsTerminal(os.Stderr.Fd()) {
		_, _ = fmt.Fprintln(os.Stderr, msg)
		return func() {}
	}

	sp := spinner.Line
	frames := sp.Frames
	interval := sp.FPS
	if len(frames) == 0 {
		frames = []string{"-"}
	}
	if interval <= 0 {
		interval = 120 * time.Millisecond
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-stop:
				// Clear the line so subsequent output starts cleanly.
				_, _ = fmt.Fprint(os.Stderr, "\r\033[2K")
				close(done)
				return
			case <-ticker.C:
				_, _ = fmt.Fprintf(os.Stderr, "\r%s %s", frames[frame%len(frames)], msg)
				frame++
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}

func renderSpinnerMessage(count int) string {
	word := "page"
	if count != 1 {
		word = "pages"
	}
	return fmt.Sprintf("Rendering %d file %s", count, word)
}
