// Package performancelab adapts the target booking site to the engine's
// collaborator interfaces: authenticator, availability scanner, booking
// executor and reservation checker, all built on browser.Inspector.
package performancelab

import "fmt"

const (
	// Login form
	selLoginCode   = `input[name="kode"]`
	selLoginName   = `input[name="nama"]`
	selLoginSubmit = `button[type="submit"]`

	// Dashboard
	dashboardPath        = "dashboard.php"
	selMembershipStatus  = `.membership-status`
	selMembershipWarning = `#membership-warning`
	selTomorrowTab       = `.date-btn[data-day="tomorrow"]`
	selTodayTab          = `.date-btn[data-day="today"]`

	// Session cards
	selSlotCard     = `.session-slot`
	selReservedCard = `.session-slot.reserved-by-user`
	selSuccessMsg   = `.success-message`
)

// Session ids observed on the dashboard.
const (
	MinSessionID = 1
	MaxSessionID = 6
)

func slotSelector(sessionID int) string {
	return fmt.Sprintf(`.session-slot[data-session-id="%d"]`, sessionID)
}

func slotButtonSelector(sessionID int) string {
	return slotSelector(sessionID) + " button"
}

func slotQuotaSelector(sessionID int) string {
	return slotSelector(sessionID) + " .session-quota"
}
