// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package stats

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/siemens/ipatlas/types"

	"github.com/gosuri/uilive"
	"github.com/muesli/termenv"
)

// DefaultInterval is the default time between two progress updates.
const DefaultInterval = 200 * time.Millisecond

var (
	runningStyle  = termenv.Style{}.Foreground(termenv.ANSIYellow)
	finishedStyle = termenv.Style{}.Foreground(termenv.ANSIGreen)
)

// Counter returns the amount of work done so far.
type Counter func() uint64

// Reporter periodically renders the progress of a pool of workers as a single,
// live-updating terminal line.
type Reporter struct {
	kind     types.WorkerKind
	counter  Counter
	total    uint64
	interval time.Duration
	out      io.Writer
}

// ReporterOption can be passed to New when creating new Reporter objects.
type ReporterOption func(*Reporter)

// New returns a new [Reporter] for the specified kind of workers, sampling
// their progress using the counter.
func New(kind types.WorkerKind, counter Counter, options ...ReporterOption) *Reporter {
	r := &Reporter{
		kind:     kind,
		counter:  counter,
		interval: DefaultInterval,
		out:      os.Stdout,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// WithTotal sets the total amount of work to be done.
func WithTotal(total uint64) ReporterOption {
	return func(r *Reporter) {
		r.total = total
	}
}

// WithInterval sets the time between two progress updates.
func WithInterval(interval time.Duration) ReporterOption {
	return func(r *Reporter) {
		if interval > 0 {
			r.interval = interval
		}
	}
}

// WithWriter sets where to render progress to, instead of stdout.
func WithWriter(w io.Writer) ReporterOption {
	return func(r *Reporter) {
		r.out = w
	}
}

// Run renders the progress at regular intervals until the context gets
// cancelled, finally rendering the progress a last time.
func (r *Reporter) Run(ctx context.Context) {
	// Dunno what uilive's background updating mode using Start() is good
	// for? It may trigger anytime with the rendering into the buffer not yet
	// complete, so we flush explicitly after each complete line instead.
	term := uilive.New()
	term.Out = r.out
	start := time.Now()
	render := func(style termenv.Style) {
		fmt.Fprintln(term, style.Styled(r.Line(r.counter(), time.Since(start))))
		term.Flush()
	}
	render(runningStyle)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			render(runningStyle)
		case <-ctx.Done():
			render(finishedStyle)
			return
		}
	}
}

// Start runs the reporter in the background, returning a function that stops
// the reporter and waits for its final update.
func (r *Reporter) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

// Line returns the progress line for the specified amount of work done and
// the time elapsed so far.
func (r *Reporter) Line(count uint64, elapsed time.Duration) string {
	elapsed = elapsed.Truncate(time.Second)
	switch {
	case r.kind == types.Probing:
		secs := uint64(elapsed / time.Second)
		return fmt.Sprintf("Pinged %d ips in %s; %d ips/sec; %d ips/min; %d ips/hour",
			count, Duration(elapsed),
			rate(count, secs), rate(count*60, secs), rate(count*3600, secs))
	case r.kind.IsTileStage():
		return fmt.Sprintf("%s %d/%d tiles; %s elapsed",
			capitalized(r.kind.Verb()), count, r.total, Duration(elapsed))
	default:
		return fmt.Sprintf("%s %d/%d results; %s elapsed",
			capitalized(r.kind.Verb()), count, r.total, Duration(elapsed))
	}
}

// Duration renders a duration in "H:MM:SS" notation.
func Duration(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

func rate(count, secs uint64) uint64 {
	if secs == 0 {
		return 0
	}
	return count / secs
}

func capitalized(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
