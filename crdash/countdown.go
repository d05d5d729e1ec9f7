/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package crdash

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diwanliwe/crtournamentdashboard/internal"
)

// ErrNoStartTime indicates a tournament carries no usable start
// timestamp; no countdown can run and callers fall back to the textual
// status.
var ErrNoStartTime = errors.New("tournament start time is missing or unparseable")

// EndedLabel is the terminal countdown label.
const EndedLabel = "tournament ended"

// Progress is one countdown observation.
type Progress struct {
	Percent   float64
	Remaining time.Duration
	Ended     bool
	Label     string
}

// Countdown tracks completion of a running tournament from its start
// time and duration. At most one countdown should run per displayed
// tournament; starting a replacement requires stopping the prior one
// first (see dashboard.Session).
type Countdown struct {
	start time.Time
	end   time.Time
	dur   time.Duration

	interval time.Duration

	mu      sync.Mutex
	stopCh  chan struct{}
	stopped bool
}

// NewCountdown builds a countdown from the wire-format start timestamp
// and a duration in seconds. A missing or malformed timestamp declines
// with ErrNoStartTime rather than guessing.
func NewCountdown(startedTime string, durationSeconds int) (*Countdown, error) {
	start, ok := internal.ParseCompactTime(startedTime)
	if !ok {
		return nil, ErrNoStartTime
	}
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("unable to build countdown: non-positive duration %v",
			durationSeconds)
	}

	dur := time.Duration(durationSeconds) * time.Second
	return &Countdown{
		start:    start,
		end:      start.Add(dur),
		dur:      dur,
		interval: time.Second,
		stopCh:   make(chan struct{}),
	}, nil
}

// ProgressAt reports completion at the given instant. Pure; callable
// whether or not Run is active. Past the end time it always reports
// exactly 100% and Ended.
func (cd *Countdown) ProgressAt(now time.Time) Progress {
	if !now.Before(cd.end) {
		return Progress{Percent: 100.0, Ended: true, Label: EndedLabel}
	}

	pct := float64(now.Sub(cd.start)) / float64(cd.dur) * 100.0
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	remaining := cd.end.Sub(now)

	return Progress{
		Percent:   pct,
		Remaining: remaining,
		Label:     FormatRemaining(remaining),
	}
}

// Run emits one immediate Progress and then one per second until the
// countdown ends or is stopped. The countdown terminates its own tick on
// reaching the end; it never relies on the caller to notice.
func (cd *Countdown) Run(ctx context.Context, emit func(Progress)) {
	p := cd.ProgressAt(time.Now())
	emit(p)
	if p.Ended {
		cd.Stop()
		return
	}

	ticker := time.NewTicker(cd.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cd.Stop()
			return
		case <-cd.stopCh:
			return
		case <-ticker.C:
			p := cd.ProgressAt(time.Now())
			emit(p)
			if p.Ended {
				cd.Stop()
				return
			}
		}
	}
}

// Stop releases the countdown's tick. Safe to call repeatedly, safe to
// call concurrently with Run, and a no-op once the countdown has
// self-terminated.
func (cd *Countdown) Stop() {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	if cd.stopped {
		return
	}
	cd.stopped = true
	close(cd.stopCh)
}

// Stopped reports whether the tick has been released.
func (cd *Countdown) Stopped() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.stopped
}

// FormatRemaining renders remaining time with leading zero units
// dropped: "2h 5min 3s", then "5min 3s" once hours reach zero, then
// "3s" once minutes do.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%vh %vmin %vs", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%vmin %vs", minutes, seconds)
	}
	return fmt.Sprintf("%vs", seconds)
}
