package render

import (
	"fmt"
	"sync/atomic"
	"time"
)

// ProgressReporter is a low-overhead progress reporter: a background
// goroutine polls an atomic pixel counter and prints updates, without the
// render workers ever blocking on it. Polling interval is 100ms normally,
// or every 30 seconds under CI — continuous progress-bar redraws are
// pointless noise in a captured CI log.
type ProgressReporter struct {
	pixelsCompleted atomic.Uint64
	totalPixels     uint64
	stop            chan struct{}
	done            chan struct{}
}

// NewProgressReporter starts the background reporting goroutine for an
// image with the given total pixel count. ci selects the logging cadence.
func NewProgressReporter(totalPixels uint64, ci bool) *ProgressReporter {
	r := &ProgressReporter{
		totalPixels: totalPixels,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go r.run(ci)
	return r
}

func (r *ProgressReporter) run(ci bool) {
	defer close(r.done)

	if ci {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				fmt.Println("Done!")
				return
			case <-ticker.C:
				pos := r.pixelsCompleted.Load()
				progress := float64(pos) / float64(r.totalPixels) * 100
				fmt.Printf("%.0f%%\n", progress)
			}
		}
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			pos := r.pixelsCompleted.Load()
			progress := float64(pos) / float64(r.totalPixels) * 100
			fmt.Printf("\r[%.1f%%]", progress)
		}
	}
}

// ReportFinishedPixels records that n more pixels have completed.
func (r *ProgressReporter) ReportFinishedPixels(n uint64) {
	r.pixelsCompleted.Add(n)
}

// Stop halts the background goroutine and waits for it to exit.
func (r *ProgressReporter) Stop() {
	close(r.stop)
	<-r.done
}

// NullReporter reports nothing; use it when progress output would just be
// noise, e.g. in a benchmark.
type NullReporter struct{}

func (NullReporter) ReportFinishedPixels(uint64) {}
