package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/gym-sniper/internal/domain/session"
	"github.com/example/gym-sniper/internal/notify"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	res   AuthResult
	err   error
	calls int
}

func (f *fakeAuth) Login(ctx context.Context) (AuthResult, error) {
	f.calls++
	return f.res, f.err
}

type fakeScanner struct {
	slots   []session.Slot
	err     error
	scans   int
	resyncs int
}

func (f *fakeScanner) Scan(ctx context.Context) ([]session.Slot, error) {
	f.scans++
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}

func (f *fakeScanner) Resync(ctx context.Context) error {
	f.resyncs++
	return nil
}

type fakeExecutor struct {
	results  map[int]AttemptResult
	err      error
	attempts []int
}

func (f *fakeExecutor) Attempt(ctx context.Context, sessionID int) (AttemptResult, error) {
	f.attempts = append(f.attempts, sessionID)
	if f.err != nil {
		return AttemptRejected, f.err
	}
	if r, ok := f.results[sessionID]; ok {
		return r, nil
	}
	return AttemptRejected, nil
}

// fakeClock advances only when the engine sleeps.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	return nil
}

func newTestEngine(auth *fakeAuth, sc *fakeScanner, ex *fakeExecutor, prefs []int, budget Budget) (*Engine, *[]string) {
	var msgs []string
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	e := &Engine{
		Auth:        auth,
		Scanner:     sc,
		Executor:    ex,
		Notifier:    notify.Func(func(ctx context.Context, msg string) { msgs = append(msgs, msg) }),
		Preferences: prefs,
		Budget:      budget,
		now:         clock.Now,
		sleep:       clock.Sleep,
	}
	return e, &msgs
}

func available(ids ...int) []session.Slot {
	var out []session.Slot
	for _, id := range ids {
		out = append(out, session.Slot{ID: id, Status: session.StatusAvailable})
	}
	return out
}

func TestRunBooksPreferredSlot(t *testing.T) {
	// Preference [6..1], snapshot {3: available, 6: full}: expect one
	// confirmed attempt on 3 and no second booking.
	auth := &fakeAuth{res: AuthResult{OK: true}}
	sc := &fakeScanner{slots: []session.Slot{
		{ID: 3, Status: session.StatusAvailable},
		{ID: 6, Status: session.StatusFull},
	}}
	ex := &fakeExecutor{results: map[int]AttemptResult{3: AttemptConfirmed}}

	e, _ := newTestEngine(auth, sc, ex, []int{6, 5, 4, 3, 2, 1}, Budget{
		MaxWallTime:    time.Hour,
		MaxRetryCycles: 5,
		RetryDelay:     time.Second,
	})

	outcome := e.Run(context.Background())
	require.Equal(t, session.Outcome{Kind: session.OutcomeBooked, SessionID: 3}, outcome)
	require.Equal(t, []int{3}, ex.attempts)
	require.Equal(t, 1, sc.scans)
}

func TestRunExhaustsRetryCycles(t *testing.T) {
	auth := &fakeAuth{res: AuthResult{OK: true}}
	sc := &fakeScanner{slots: []session.Slot{
		{ID: 1, Status: session.StatusFull},
		{ID: 2, Status: session.StatusFull},
	}}
	ex := &fakeExecutor{}

	e, _ := newTestEngine(auth, sc, ex, []int{2, 1}, Budget{
		MaxWallTime:    time.Hour,
		MaxRetryCycles: 3,
		RetryDelay:     time.Second,
	})

	outcome := e.Run(context.Background())
	require.Equal(t, session.OutcomeExhaustedRetries, outcome.Kind)
	require.Equal(t, 3, sc.scans)
	require.Empty(t, ex.attempts)
	// Resync runs between cycles, not after the last one.
	require.Equal(t, 2, sc.resyncs)
}

func TestRunScannerFailureIsTerminal(t *testing.T) {
	auth := &fakeAuth{res: AuthResult{OK: true}}
	sc := &fakeScanner{err: fmt.Errorf("%w: persistent error page", ErrNoUsableSnapshot)}
	ex := &fakeExecutor{}

	e, _ := newTestEngine(auth, sc, ex, []int{6, 5}, Budget{
		MaxWallTime:    time.Hour,
		MaxRetryCycles: 10,
		RetryDelay:     time.Second,
	})

	outcome := e.Run(context.Background())
	require.Equal(t, session.OutcomeNoSlotsEverAppeared, outcome.Kind)
	require.Equal(t, 1, sc.scans)
	require.Empty(t, ex.attempts)
}

func TestRunAbortsOnWallClockAtCycleBoundary(t *testing.T) {
	auth := &fakeAuth{res: AuthResult{OK: true}}
	// No candidate ever appears, so every cycle ends in a delayed retry.
	sc := &fakeScanner{slots: []session.Slot{{ID: 1, Status: session.StatusFull}}}
	ex := &fakeExecutor{}

	// Each retry delay is 10s, budget is 15s: cycle 1 runs, the timeout
	// trips at the top of cycle 2 even though cycles remain.
	e, _ := newTestEngine(auth, sc, ex, []int{1}, Budget{
		MaxWallTime:    15 * time.Second,
		MaxRetryCycles: 100,
		RetryDelay:     20 * time.Second,
	})

	outcome := e.Run(context.Background())
	require.Equal(t, session.OutcomeAbortedTimeout, outcome.Kind)
	require.Equal(t, 1, sc.scans)
}

func TestRunAuthFailureIsTerminal(t *testing.T) {
	auth := &fakeAuth{res: AuthResult{Reason: "bad credentials"}}
	sc := &fakeScanner{}
	ex := &fakeExecutor{}

	e, msgs := newTestEngine(auth, sc, ex, []int{6}, Budget{
		MaxWallTime:    time.Hour,
		MaxRetryCycles: 3,
		RetryDelay:     time.Second,
	})

	outcome := e.Run(context.Background())
	require.Equal(t, session.OutcomeAuthFailed, outcome.Kind)
	require.Equal(t, 0, sc.scans)
	require.Empty(t, ex.attempts)
	require.Contains(t, (*msgs)[len(*msgs)-1], "bad credentials")
}

func TestRunAuthErrorIsTerminal(t *testing.T) {
	auth := &fakeAuth{err: errors.New("login page unreachable")}
	sc := &fakeScanner{}
	ex := &fakeExecutor{}

	e, _ := newTestEngine(auth, sc, ex, []int{6}, Budget{
		MaxWallTime:    time.Hour,
		MaxRetryCycles: 3,
		RetryDelay:     time.Second,
	})

	require.Equal(t, session.OutcomeAuthFailed, e.Run(context.Background()).Kind)
	require.Equal(t, 0, sc.scans)
}

func TestRunTriesNextCandidateAfterRejection(t *testing.T) {
	auth := &fakeAuth{res: AuthResult{OK: true}}
	sc := &fakeScanner{slots: available(6, 5, 4)}
	ex := &fakeExecutor{results: map[int]AttemptResult{
		6: AttemptVanished,
		5: AttemptRejected,
		4: AttemptConfirmed,
	}}

	e, _ := newTestEngine(auth, sc, ex, []int{6, 5, 4, 3, 2, 1}, Budget{
		MaxWallTime:    time.Hour,
		MaxRetryCycles: 1,
		RetryDelay:     time.Second,
	})

	outcome := e.Run(context.Background())
	require.Equal(t, session.Outcome{Kind: session.OutcomeBooked, SessionID: 4}, outcome)
	// Fallthrough happens within the same cycle, no rescans.
	require.Equal(t, []int{6, 5, 4}, ex.attempts)
	require.Equal(t, 1, sc.scans)
}

func TestRunExecutorErrorCountsAsRejection(t *testing.T) {
	auth := &fakeAuth{res: AuthResult{OK: true}}
	sc := &fakeScanner{slots: available(6)}
	ex := &fakeExecutor{err: errors.New("click lost the tab")}

	e, _ := newTestEngine(auth, sc, ex, []int{6}, Budget{
		MaxWallTime:    time.Hour,
		MaxRetryCycles: 2,
		RetryDelay:     time.Second,
	})

	outcome := e.Run(context.Background())
	require.Equal(t, session.OutcomeExhaustedRetries, outcome.Kind)
	require.Equal(t, []int{6, 6}, ex.attempts)
}

type fakeReserved struct {
	id int
	ok bool
}

func (f *fakeReserved) ReservedSession(ctx context.Context) (int, bool, error) {
	return f.id, f.ok, nil
}

func TestRunShortCircuitsWhenAlreadyReserved(t *testing.T) {
	auth := &fakeAuth{res: AuthResult{OK: true}}
	sc := &fakeScanner{slots: available(6)}
	ex := &fakeExecutor{}

	e, _ := newTestEngine(auth, sc, ex, []int{6}, Budget{
		MaxWallTime:    time.Hour,
		MaxRetryCycles: 3,
		RetryDelay:     time.Second,
	})
	e.Reserved = &fakeReserved{id: 4, ok: true}

	outcome := e.Run(context.Background())
	require.Equal(t, session.Outcome{Kind: session.OutcomeBooked, SessionID: 4}, outcome)
	require.Equal(t, 0, sc.scans)
	require.Empty(t, ex.attempts)
}

func TestRunEmitsOneNotificationPerTransition(t *testing.T) {
	auth := &fakeAuth{res: AuthResult{OK: true}}
	sc := &fakeScanner{slots: available(6)}
	ex := &fakeExecutor{results: map[int]AttemptResult{6: AttemptConfirmed}}

	e, msgs := newTestEngine(auth, sc, ex, []int{6}, Budget{
		MaxWallTime:    time.Hour,
		MaxRetryCycles: 1,
		RetryDelay:     time.Second,
	})

	e.Run(context.Background())
	// AUTHENTICATING, SCANNING, SELECTING, BOOKING, DONE.
	require.Len(t, *msgs, 5)
}
