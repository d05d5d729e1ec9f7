/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/diwanliwe/crtournamentdashboard/crdash"
)

const tournamentBody = `{"tag":"#2JYLU8YQ","name":"Friday Clash","status":"inProgress","capacity":2,"maxCapacity":1000,"membersList":2,"duration":3600,"startedTime":"20260101T000000.000Z"}`

const tournamentPendingBody = `{"tag":"#PENDING1","name":"Launch Pad","status":"pending","capacity":0,"maxCapacity":100,"membersList":0,"duration":3600}`

const analyzeBody = `{"tournament":{"tag":"#2JYLU8YQ","name":"Friday Clash","status":"inProgress","capacity":2,"maxCapacity":1000},"analysis":{"players":[{"tag":"#AAA","name":"Alpha","trophies":9100,"classification":{"tier":"top_1k","label":"Top 1K","rank":512,"priority":1}},{"tag":"#BBB","name":"Bravo","trophies":8200,"classification":{"tier":"casual","label":"Casual","trophies":8200,"priority":8}}],"summary":{"top_1k":{"count":1,"percent":50},"casual":{"count":1,"percent":50}},"stats":{"total":2,"successful":2,"errors":0,"cached":1,"fetched":1},"errors":[]},"elapsed_seconds":1.2}`

const analyzePendingBody = `{"tournament":{"tag":"#PENDING1","name":"Launch Pad","status":"pending","capacity":0,"maxCapacity":100},"analysis":{"players":[],"summary":{},"stats":{"total":0,"successful":0,"errors":0,"cached":0,"fetched":0},"errors":[]},"elapsed_seconds":0.1}`

func newDashClient(t *testing.T, ts *httptest.Server) *crdash.Client {
	t.Helper()

	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	client, err := crdash.NewClient(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	return client
}

func TestSearchAndAnalyzeSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tournament/2JYLU8YQ",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tournamentBody)
		})
	mux.HandleFunc("/api/tournament/2JYLU8YQ/analyze",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, analyzeBody)
		})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	var msgs []string
	sess := NewSession(newDashClient(t, ts), func(msg string) {
		msgs = append(msgs, msg)
	})

	err := sess.SearchAndAnalyze(context.Background(), "  #2jylu8yq ")
	if err != nil {
		t.Fatalf("SearchAndAnalyze failed: %v", err)
	}

	view := sess.Snapshot()
	if view.Phase != PhaseDisplaying {
		t.Errorf("expected Displaying, got %v", view.Phase)
	}
	if view.Failure != "" {
		t.Errorf("unexpected failure %q", view.Failure)
	}
	if view.Tournament == nil || view.Tournament.Name != "Friday Clash" {
		t.Errorf("unexpected tournament %+v", view.Tournament)
	}
	if view.Analysis == nil || view.Analysis.Analysis.Stats.Total != 2 {
		t.Errorf("unexpected analysis %+v", view.Analysis)
	}

	if len(msgs) != 2 {
		t.Fatalf("expected 2 progress messages, got %v", msgs)
	}
	if !strings.Contains(msgs[0], "Looking up tournament #2JYLU8YQ") {
		t.Errorf("unexpected lookup message %q", msgs[0])
	}
	if !strings.Contains(msgs[1], "Analyzing 2 players in Friday Clash") {
		t.Errorf("unexpected analyze message %q", msgs[1])
	}

	if sess.Countdown() == nil {
		t.Errorf("expected a countdown for a started tournament")
	}
}

func TestSearchAndAnalyzeReplacesResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tournament/2JYLU8YQ",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tournamentBody)
		})
	mux.HandleFunc("/api/tournament/2JYLU8YQ/analyze",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, analyzeBody)
		})
	mux.HandleFunc("/api/tournament/PENDING1",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tournamentPendingBody)
		})
	mux.HandleFunc("/api/tournament/PENDING1/analyze",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, analyzePendingBody)
		})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	sess := NewSession(newDashClient(t, ts), nil)

	if err := sess.SearchAndAnalyze(context.Background(), "#2JYLU8YQ"); err != nil {
		t.Fatalf("first SearchAndAnalyze failed: %v", err)
	}
	first := sess.Countdown()
	if first == nil {
		t.Fatalf("expected a countdown from the first result")
	}

	if err := sess.SearchAndAnalyze(context.Background(), "#PENDING1"); err != nil {
		t.Fatalf("second SearchAndAnalyze failed: %v", err)
	}

	if !first.Stopped() {
		t.Errorf("prior result's countdown was not released")
	}
	if sess.Countdown() != nil {
		t.Errorf("pending tournament should not have a countdown")
	}
	view := sess.Snapshot()
	if view.Tournament == nil || view.Tournament.Name != "Launch Pad" {
		t.Errorf("result was not replaced: %+v", view.Tournament)
	}
}

func TestSearchAndAnalyzeRejectsConcurrent(t *testing.T) {
	lookupStarted := make(chan struct{})
	release := make(chan struct{})
	var lookups, analyzes atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/tournament/2JYLU8YQ",
		func(w http.ResponseWriter, r *http.Request) {
			if lookups.Add(1) == 1 {
				close(lookupStarted)
				<-release
			}
			fmt.Fprint(w, tournamentBody)
		})
	mux.HandleFunc("/api/tournament/2JYLU8YQ/analyze",
		func(w http.ResponseWriter, r *http.Request) {
			analyzes.Add(1)
			fmt.Fprint(w, analyzeBody)
		})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	sess := NewSession(newDashClient(t, ts), nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sess.SearchAndAnalyze(context.Background(), "#2JYLU8YQ")
	}()

	<-lookupStarted
	if !sess.Busy() {
		t.Errorf("expected Busy while lookup is in flight")
	}
	err := sess.SearchAndAnalyze(context.Background(), "#2JYLU8YQ")
	if !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	close(release)

	if err := <-errCh; err != nil {
		t.Fatalf("first SearchAndAnalyze failed: %v", err)
	}
	if got := lookups.Load(); got != 1 {
		t.Errorf("expected exactly 1 lookup, got %v", got)
	}
	if got := analyzes.Load(); got != 1 {
		t.Errorf("expected exactly 1 analysis, got %v", got)
	}
	if view := sess.Snapshot(); view.Phase != PhaseDisplaying {
		t.Errorf("expected Displaying, got %v", view.Phase)
	}
}

func TestSearchAndAnalyzeEmptyTag(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request %v", r.URL.Path)
		}))
	defer ts.Close()

	var msgs []string
	sess := NewSession(newDashClient(t, ts), func(msg string) {
		msgs = append(msgs, msg)
	})

	for _, in := range []string{"", "   ", "#"} {
		err := sess.SearchAndAnalyze(context.Background(), in)
		if !errors.Is(err, crdash.ErrEmptyTag) {
			t.Errorf("input %q: expected ErrEmptyTag, got %v", in, err)
		}
	}

	if view := sess.Snapshot(); view.Phase != PhaseIdle {
		t.Errorf("empty input must not leave Idle, got %v", view.Phase)
	}
	if len(msgs) != 3 || msgs[0] != "Please enter a tournament tag" {
		t.Errorf("expected a prompt per rejection, got %v", msgs)
	}
}

func TestSearchAndAnalyzeLookupFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tournament/MISSING1",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"detail":"Tournament not found"}`)
		})
	mux.HandleFunc("/api/tournament/2JYLU8YQ",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tournamentBody)
		})
	mux.HandleFunc("/api/tournament/2JYLU8YQ/analyze",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, analyzeBody)
		})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	sess := NewSession(newDashClient(t, ts), nil)

	if err := sess.SearchAndAnalyze(context.Background(), "#MISSING1"); err == nil {
		t.Fatalf("expected lookup failure")
	}
	view := sess.Snapshot()
	if view.Phase != PhaseFailed {
		t.Errorf("expected Failed, got %v", view.Phase)
	}
	if view.Failure != "tournament lookup failed: Tournament not found" {
		t.Errorf("unexpected failure %q", view.Failure)
	}
	if sess.Busy() {
		t.Errorf("session must accept a new search after a failure")
	}

	// a new search recovers without any reset
	if err := sess.SearchAndAnalyze(context.Background(), "#2JYLU8YQ"); err != nil {
		t.Fatalf("recovery SearchAndAnalyze failed: %v", err)
	}
	view = sess.Snapshot()
	if view.Phase != PhaseDisplaying || view.Failure != "" {
		t.Errorf("expected clean Displaying, got %v %q", view.Phase, view.Failure)
	}
}

func TestSearchAndAnalyzeAnalysisFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tournament/2JYLU8YQ",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tournamentBody)
		})
	mux.HandleFunc("/api/tournament/2JYLU8YQ/analyze",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `{"detail":"Clash Royale API unavailable"}`)
		})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	sess := NewSession(newDashClient(t, ts), nil)

	if err := sess.SearchAndAnalyze(context.Background(), "#2JYLU8YQ"); err == nil {
		t.Fatalf("expected analysis failure")
	}
	view := sess.Snapshot()
	if view.Phase != PhaseFailed {
		t.Errorf("expected Failed, got %v", view.Phase)
	}
	if view.Failure != "analysis failed: Clash Royale API unavailable" {
		t.Errorf("unexpected failure %q", view.Failure)
	}
}

func TestResetDiscardsStaleResult(t *testing.T) {
	analyzeStarted := make(chan struct{})
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/tournament/2JYLU8YQ",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tournamentBody)
		})
	mux.HandleFunc("/api/tournament/2JYLU8YQ/analyze",
		func(w http.ResponseWriter, r *http.Request) {
			close(analyzeStarted)
			<-release
			fmt.Fprint(w, analyzeBody)
		})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	sess := NewSession(newDashClient(t, ts), nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sess.SearchAndAnalyze(context.Background(), "#2JYLU8YQ")
	}()

	<-analyzeStarted
	sess.Reset()
	close(release)

	if err := <-errCh; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	view := sess.Snapshot()
	if view.Phase != PhaseIdle || view.Tournament != nil || view.Analysis != nil {
		t.Errorf("stale result applied after reset: %+v", view)
	}
}

func TestFailureMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&crdash.APIError{StatusCode: 404, Detail: "Tournament not found"},
			"Tournament not found"},
		{fmt.Errorf("unable to fetch tournament: %w",
			&crdash.APIError{StatusCode: 404, Detail: "Tournament not found"}),
			"Tournament not found"},
		{&crdash.APIError{StatusCode: 502},
			"the server answered HTTP 502"},
		{errors.New("dial tcp: connection refused"),
			"network error, please retry"},
	}

	for _, c := range cases {
		if got := failureMessage(c.err); got != c.want {
			t.Errorf("failureMessage(%v): expected %q, got %q", c.err, c.want,
				got)
		}
	}
}
