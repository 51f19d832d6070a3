package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter shows a progress bar while a batch of scripts is analyzed.
// A nil or quiet reporter prints nothing.
type ProgressReporter struct {
	quiet     bool
	out       io.Writer
	bar       *progressbar.ProgressBar
	mu        sync.Mutex
	startTime time.Time
	total     int
	processed int
}

// NewProgressReporter creates a progress reporter writing to out.
func NewProgressReporter(out io.Writer, quiet bool) *ProgressReporter {
	return &ProgressReporter{
		quiet:     quiet,
		out:       out,
		startTime: time.Now(),
	}
}

// OnAnalysisStart opens a bar for totalFiles scripts. Single files get no bar.
func (p *ProgressReporter) OnAnalysisStart(totalFiles int) {
	if p == nil || p.quiet || totalFiles < 2 {
		return
	}
	p.total = totalFiles
	p.processed = 0

	p.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Analyzing scripts"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.out)
		}),
	)
}

// OnFileProcessed advances the bar. Safe for concurrent use.
func (p *ProgressReporter) OnFileProcessed(fileName string) {
	if p == nil || p.bar == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed++
	_ = p.bar.Add(1)
}

// OnComplete closes the bar and prints a one-line summary.
func (p *ProgressReporter) OnComplete(failed int) {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprintf(p.out, "✓ Analyzed %d scripts in %.1fs", p.processed, time.Since(p.startTime).Seconds())
	if failed > 0 {
		fmt.Fprintf(p.out, " (%d could not be read)", failed)
	}
	fmt.Fprintln(p.out)
}
