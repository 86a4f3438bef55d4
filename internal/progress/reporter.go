package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter shows how far an indexing run has got.
type Reporter interface {
	Start(total int, label string)
	Update(done int)
	Finish()
}

// NewReporter returns a LineReporter under CI and a BarReporter otherwise.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineReporter{Out: os.Stderr}
	}
	return &BarReporter{}
}

// BatchFunc adapts r to the callback shape the vector index reports
// committed batches through. Start is called lazily on the first batch.
func BatchFunc(r Reporter, label string) func(done, total int) {
	started := false
	return func(done, total int) {
		if !started {
			r.Start(total, label)
			started = true
		}
		r.Update(done)
	}
}

// BarReporter draws a progress bar on stderr.
type BarReporter struct {
	bar *progressbar.ProgressBar
}

func (r *BarReporter) Start(total int, label string) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *BarReporter) Update(done int) {
	if r.bar != nil {
		_ = r.bar.Set(done)
	}
}

func (r *BarReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LineReporter prints one line per update, for logs that cannot redraw.
type LineReporter struct {
	Out   io.Writer
	total int
	label string
}

func (r *LineReporter) Start(total int, label string) {
	r.total = total
	r.label = label
	fmt.Fprintf(r.Out, "%s: %d units\n", label, total)
}

func (r *LineReporter) Update(done int) {
	fmt.Fprintf(r.Out, "[%d/%d] %s\n", done, r.total, r.label)
}

func (r *LineReporter) Finish() {
	fmt.Fprintf(r.Out, "%s complete\n", r.label)
}
