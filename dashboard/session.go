/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/diwanliwe/crtournamentdashboard/crdash"
)

// Phase is the search/analyze flow state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLookingUp
	PhaseAnalyzing
	// PhaseDisplaying holds a completed result.
	PhaseDisplaying
	// PhaseFailed displays a failure; like Displaying, a new search may
	// start from here.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLookingUp:
		return "looking up"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseDisplaying:
		return "displaying"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ErrBusy indicates a search is already in flight. Re-entrant
// invocations are rejected at the entry point, so a double click and a
// stray Enter keypress cost one lookup, not two.
var ErrBusy = errors.New("a search is already in progress")

// ErrSuperseded indicates a reset or newer search displaced this run
// while its response was in flight; the late result was discarded.
var ErrSuperseded = errors.New("superseded by a newer search or reset")

// Session drives the two-stage search flow: tournament lookup, then full
// player analysis. All of the flow's mutable state lives here behind one
// mutex; there are no ambient flags. State machine:
//
//	Idle -> LookingUp -> Analyzing -> Displaying | Failed -> Idle
type Session struct {
	client *crdash.Client

	// onProgress receives user-facing stage messages; nil is fine.
	onProgress func(string)

	mu         sync.Mutex
	phase      Phase
	generation uint64
	tournament *crdash.Tournament
	analysis   *crdash.AnalyzeResult
	countdown  *crdash.Countdown
	failure    string
}

// NewSession returns an idle Session backed by the given client.
func NewSession(client *crdash.Client, onProgress func(string)) *Session {
	return &Session{
		client:     client,
		onProgress: onProgress,
	}
}

func (s *Session) progress(msg string) {
	if s.onProgress != nil {
		s.onProgress(msg)
	}
}

// SearchAndAnalyze runs lookup then analysis strictly in sequence; the
// analysis stage needs the member count lookup returns for its progress
// message. Empty input is rejected before any request. While either
// network stage is in flight further invocations return ErrBusy. On
// success the previous result is fully replaced and its countdown
// released; on failure the session shows the failure and is immediately
// ready for a new search.
func (s *Session) SearchAndAnalyze(ctx context.Context, rawTag string) error {
	norm := crdash.NormalizeTag(rawTag)
	if norm == "" {
		s.progress("Please enter a tournament tag")
		return crdash.ErrEmptyTag
	}

	s.mu.Lock()
	if s.phase == PhaseLookingUp || s.phase == PhaseAnalyzing {
		s.mu.Unlock()
		return ErrBusy
	}
	s.generation++
	myGen := s.generation
	s.phase = PhaseLookingUp
	s.failure = ""
	s.mu.Unlock()

	s.progress(fmt.Sprintf("Looking up tournament %v...",
		crdash.DisplayTag(norm)))

	tourn, err := s.client.GetTournament(ctx, norm)
	if err != nil {
		return s.fail(myGen, "tournament lookup failed", err)
	}

	if err := s.advance(myGen, PhaseAnalyzing); err != nil {
		return err
	}
	s.progress(fmt.Sprintf("Analyzing %v players in %v...",
		tourn.MemberCount, tourn.Name))

	res, err := s.client.AnalyzeTournament(ctx, norm)
	if err != nil {
		return s.fail(myGen, "analysis failed", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != myGen {
		return ErrSuperseded
	}

	// full replacement; the prior result's countdown is released first
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	s.tournament = tourn
	s.analysis = res
	s.failure = ""
	if cd, err := tourn.Countdown(); err == nil {
		s.countdown = cd
	}
	s.phase = PhaseDisplaying

	return nil
}

// advance moves to the next phase unless a reset displaced this run.
func (s *Session) advance(myGen uint64, next Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != myGen {
		return ErrSuperseded
	}
	s.phase = next
	return nil
}

// fail records a stage failure unless a reset displaced this run. The
// session stays ready for a new search; inputs are never left disabled.
func (s *Session) fail(myGen uint64, stage string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != myGen {
		return ErrSuperseded
	}
	s.phase = PhaseFailed
	s.failure = fmt.Sprintf("%v: %v", stage, failureMessage(err))

	return fmt.Errorf("%v: %w", stage, err)
}

// Reset returns the session to Idle and releases the countdown. A fetch
// still in flight is detected by its stale generation when it lands and
// discarded rather than applied.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.phase = PhaseIdle
	s.tournament = nil
	s.analysis = nil
	s.failure = ""
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
}

// Busy reports whether a search is currently in a network stage.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == PhaseLookingUp || s.phase == PhaseAnalyzing
}

// View is a copy of the session's displayable state.
type View struct {
	Phase      Phase
	Tournament *crdash.Tournament
	Analysis   *crdash.AnalyzeResult
	Failure    string
}

// Snapshot returns the current displayable state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Phase:      s.phase,
		Tournament: s.tournament,
		Analysis:   s.analysis,
		Failure:    s.failure,
	}
}

// Countdown returns the displayed tournament's countdown, or nil when
// none applies. The session retains ownership; it stops the countdown
// on reset or replacement.
func (s *Session) Countdown() *crdash.Countdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countdown
}

// failureMessage converts an error into the user-facing text: the
// backend's own message when it sent one, generic fallbacks otherwise.
// Transport detail goes to the log only.
func failureMessage(err error) string {
	var apiErr *crdash.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fmt.Sprintf("the server answered HTTP %v", apiErr.StatusCode)
	}

	log.Printf("dashboard.failure: %v", err)
	return "network error, please retry"
}
