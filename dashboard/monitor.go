/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/diwanliwe/crtournamentdashboard/crdash"
)

// MaxSlots is the number of independently tracked tournaments.
const MaxSlots = 3

const (
	DefaultPollInterval = 5 * time.Second
	MinPollInterval     = 3 * time.Second
)

// batchPhase makes the overlap guard explicit state rather than an
// ambient flag: a tick fetches only from batchIdle.
type batchPhase int

const (
	batchIdle batchPhase = iota
	batchBusy
)

// slot is one tracked tournament. A failed fetch keeps the last good
// data so the display degrades rather than blanks.
type slot struct {
	tag        string
	tournament *crdash.Tournament
	failure    string
	updatedAt  time.Time
}

// SlotView is a copy of one slot's displayable state.
type SlotView struct {
	Tag        string
	Tournament *crdash.Tournament
	Failure    string
	UpdatedAt  time.Time

	// AnalyzeEnabled reports whether the slot's analyze action is
	// offered: true only after a successful fetch, false again the
	// moment a fetch fails.
	AnalyzeEnabled bool
}

// Monitor polls up to MaxSlots tournaments on a shared cadence. Each
// tick fetches all configured slots concurrently with cache busting, so
// live member counts come back even while the backend edge cache is
// warm. Activation is a two-state toggle: starting an active monitor
// and stopping an inactive one are both no-ops.
type Monitor struct {
	client   *crdash.Client
	interval time.Duration

	// onUpdate receives every slot state change; nil is fine.
	onUpdate func(int, SlotView)

	mu      sync.Mutex
	slots   [MaxSlots]slot
	batch   batchPhase
	running bool
	stopCh  chan struct{}
}

// NewMonitor returns an inactive Monitor. A zero interval selects
// DefaultPollInterval; anything below MinPollInterval is raised to it.
func NewMonitor(client *crdash.Client, interval time.Duration,
	onUpdate func(int, SlotView)) *Monitor {

	if interval == 0 {
		interval = DefaultPollInterval
	}
	if interval < MinPollInterval {
		interval = MinPollInterval
	}

	return &Monitor{
		client:   client,
		interval: interval,
		onUpdate: onUpdate,
	}
}

// SetSlot points slot idx at tag; an empty tag clears the slot. Takes
// effect on the next tick, or immediately via Start.
func (m *Monitor) SetSlot(idx int, tag string) error {
	if idx < 0 || idx >= MaxSlots {
		return fmt.Errorf("slot %v out of range (0-%v)", idx, MaxSlots-1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[idx] = slot{tag: crdash.NormalizeTag(tag)}

	return nil
}

// ClearSlot stops tracking slot idx.
func (m *Monitor) ClearSlot(idx int) error {
	return m.SetSlot(idx, "")
}

// Slot returns a copy of slot idx's current state.
func (m *Monitor) Slot(idx int) SlotView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked(idx)
}

// Views returns a copy of every slot's current state.
func (m *Monitor) Views() []SlotView {
	m.mu.Lock()
	defer m.mu.Unlock()

	views := make([]SlotView, MaxSlots)
	for idx := range views {
		views[idx] = m.viewLocked(idx)
	}

	return views
}

func (m *Monitor) viewLocked(idx int) SlotView {
	sl := m.slots[idx]
	return SlotView{
		Tag:            sl.tag,
		Tournament:     sl.tournament,
		Failure:        sl.failure,
		UpdatedAt:      sl.updatedAt,
		AnalyzeEnabled: sl.tournament != nil && sl.failure == "",
	}
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Start activates the monitor: one immediate fetch of every configured
// slot, then the periodic tick. No-op when already active.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	stopCh := make(chan struct{})
	m.stopCh = stopCh
	interval := m.interval
	m.mu.Unlock()

	go m.loop(ctx, interval, stopCh)
}

// Stop deactivates the monitor. The last rendered slot state stays in
// place; nothing is cleared. No-op when already inactive.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
	m.stopCh = nil
}

func (m *Monitor) loop(ctx context.Context, interval time.Duration,
	stopCh chan struct{}) {

	m.pollOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.stopIfCurrent(stopCh)
			return
		case <-stopCh:
			return
		case <-ticker.C:
			// the tick must not wait on the batch, or a slow batch
			// would stack ticks instead of being skipped
			go m.pollOnce(ctx)
		}
	}
}

// stopIfCurrent deactivates the monitor only if stopCh still belongs to
// the active loop; a loop outliving its own Stop must not tear down a
// successor started since.
func (m *Monitor) stopIfCurrent(stopCh chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running || m.stopCh != stopCh {
		return
	}
	m.running = false
	close(m.stopCh)
	m.stopCh = nil
}

// pollOnce runs one batch across all configured slots. The batch phase
// is the overlap guard: while a prior batch is still settling, the
// entire tick is skipped, no per-slot fetches at all. The phase returns
// to idle only after every slot's fetch has settled.
func (m *Monitor) pollOnce(ctx context.Context) {
	m.mu.Lock()
	if m.batch == batchBusy {
		m.mu.Unlock()
		log.Printf("monitor.pollOnce: prior batch still in flight; skipping tick")
		return
	}
	m.batch = batchBusy
	var tags [MaxSlots]string
	for idx := range m.slots {
		tags[idx] = m.slots[idx].tag
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	for idx := 0; idx < MaxSlots; idx++ {
		if tags[idx] == "" {
			continue
		}
		wg.Add(1)
		go func(idx int, tag string) {
			defer wg.Done()

			tourn, err := m.client.PollTournament(ctx, tag)
			m.applyResult(idx, tag, tourn, err)
		}(idx, tags[idx])
	}
	wg.Wait()

	m.mu.Lock()
	m.batch = batchIdle
	m.mu.Unlock()
}

// applyResult installs one slot's fetch outcome. A failure is confined
// to its own slot; siblings in the same batch are untouched.
func (m *Monitor) applyResult(idx int, tag string, tourn *crdash.Tournament,
	err error) {

	m.mu.Lock()
	if m.slots[idx].tag != tag {
		// slot was re-targeted while the fetch was in flight
		m.mu.Unlock()
		return
	}
	if err != nil {
		log.Printf("monitor.applyResult: slot %v (%v): %v", idx,
			crdash.DisplayTag(tag), err)
		m.slots[idx].failure = failureMessage(err)
	} else {
		m.slots[idx].tournament = tourn
		m.slots[idx].failure = ""
		m.slots[idx].updatedAt = time.Now()
	}
	view := m.viewLocked(idx)
	cb := m.onUpdate
	m.mu.Unlock()

	if cb != nil {
		cb(idx, view)
	}
}

// BuildMonitorOutput renders one line per slot for terminal display.
func BuildMonitorOutput(views []SlotView) string {
	var sb strings.Builder

	for idx, view := range views {
		sb.WriteString(fmt.Sprintf("Slot %v: ", idx+1))

		switch {
		case view.Tag == "":
			sb.WriteString("(not configured)")
		case view.Failure != "":
			sb.WriteString(fmt.Sprintf("%v unavailable: %v",
				crdash.DisplayTag(view.Tag), view.Failure))
		case view.Tournament == nil:
			sb.WriteString(fmt.Sprintf("%v waiting for first update",
				crdash.DisplayTag(view.Tag)))
		default:
			t := view.Tournament
			sb.WriteString(fmt.Sprintf("%v (%v) %v, players %v/%v",
				t.Name, t.DisplayTag(), t.Status.Label(), t.MemberCount,
				t.MaxCapacity))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
