package performancelab

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/example/gym-sniper/internal/browser"
	"github.com/example/gym-sniper/internal/domain/session"
	"github.com/example/gym-sniper/internal/engine"
	"github.com/stretchr/testify/require"
)

func newTestScanner(insp *fakeInspector) *Scanner {
	return &Scanner{
		Inspector:    insp,
		DashboardURL: "https://gym.example/dashboard.php",
		Log:          slog.Default(),
		Attempts:     3,
		Delay:        time.Millisecond,
	}
}

func dashboardWithSlots(insp *fakeInspector) {
	insp.location = "https://gym.example/dashboard.php"
	insp.title = "Dashboard"
	insp.card(1, "session-slot available", "Pesan", false, "Kuota: 5/30")
	insp.card(2, "session-slot full", "Penuh", false, "Kuota: 30/30")
	insp.card(3, "session-slot", "Pesan", true, "Kuota: 30/30")
}

func TestScanReadsSnapshot(t *testing.T) {
	insp := newFakeInspector()
	dashboardWithSlots(insp)

	slots, err := newTestScanner(insp).Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, []session.Slot{
		{ID: 1, Status: session.StatusAvailable, Quota: &session.Quota{Filled: 5, Capacity: 30}},
		{ID: 2, Status: session.StatusFull, Quota: &session.Quota{Filled: 30, Capacity: 30}},
		{ID: 3, Status: session.StatusUnavailable, Quota: &session.Quota{Filled: 30, Capacity: 30}},
	}, slots)
}

func TestScanIsIdempotent(t *testing.T) {
	insp := newFakeInspector()
	dashboardWithSlots(insp)
	sc := newTestScanner(insp)

	first, err := sc.Scan(context.Background())
	require.NoError(t, err)
	second, err := sc.Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestScanRetriesErrorPageThenFails(t *testing.T) {
	insp := newFakeInspector()
	insp.location = "https://gym.example/dashboard.php"
	insp.title = "500 Internal Server Error"

	_, err := newTestScanner(insp).Scan(context.Background())
	require.ErrorIs(t, err, engine.ErrNoUsableSnapshot)
	// Refresh ran between the three attempts.
	require.Equal(t, 2, insp.refreshes)
}

func TestScanRecoversAfterRefresh(t *testing.T) {
	insp := newFakeInspector()
	insp.location = "https://gym.example/dashboard.php"
	insp.title = "503 Service Unavailable"
	insp.onRefresh = func() {
		dashboardWithSlots(insp)
	}

	slots, err := newTestScanner(insp).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 3)
}

func TestScanEmptyListingIsFailureNotZeroSlots(t *testing.T) {
	insp := newFakeInspector()
	insp.location = "https://gym.example/dashboard.php"
	insp.title = "Dashboard"

	_, err := newTestScanner(insp).Scan(context.Background())
	require.ErrorIs(t, err, engine.ErrNoUsableSnapshot)
}

func TestScanNavigatesWhenOffDashboard(t *testing.T) {
	insp := newFakeInspector()
	insp.title = "Dashboard"
	insp.location = "https://gym.example/"
	insp.onClick = func(sel string) {
		if sel == selTomorrowTab {
			dashboardWithSlots(insp)
		}
	}

	_, err := newTestScanner(insp).Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"https://gym.example/dashboard.php"}, insp.navigations)
	require.Contains(t, insp.clicks, selTomorrowTab)
}

func TestReservedSession(t *testing.T) {
	insp := newFakeInspector()
	insp.location = "https://gym.example/dashboard.php"
	insp.set(selReservedCard, browser.Element{
		Classes: "session-slot reserved-by-user",
		Attrs:   map[string]string{"data-session-id": "4"},
	})

	id, reserved, err := newTestScanner(insp).ReservedSession(context.Background())
	require.NoError(t, err)
	require.True(t, reserved)
	require.Equal(t, 4, id)
}

func TestReservedSessionAbsent(t *testing.T) {
	insp := newFakeInspector()
	insp.location = "https://gym.example/dashboard.php"

	_, reserved, err := newTestScanner(insp).ReservedSession(context.Background())
	require.NoError(t, err)
	require.False(t, reserved)
}
