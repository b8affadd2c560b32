package domain

import (
	"fmt"
	"time"
)

// Default reply texts, overridable through the replies config.
const (
	DefaultOfflineMessage  = "I'm currently offline. Will reply soon!"
	DefaultOfflineCmdText  = "I'm currently offline."
	DefaultTempOfflineText = "I'm temporarily offline."
)

// Presence represents the global online/offline state of the account
type Presence struct {
	Offline        bool
	OfflineMessage string
	OfflineUntil   *time.Time // set only for timed offline mode
}

// NewPresence creates the default (online) presence state
func NewPresence() Presence {
	return Presence{
		Offline:        false,
		OfflineMessage: DefaultOfflineMessage,
	}
}

// GoOnline switches to online mode
// The stored offline message text is kept for the next activation;
// only the flag and the expiry reset.
func (p *Presence) GoOnline() {
	p.Offline = false
	p.OfflineUntil = nil
}

// GoOffline switches to indefinite offline mode
func (p *Presence) GoOffline(message string) {
	if message == "" {
		message = DefaultOfflineCmdText
	}
	p.Offline = true
	p.OfflineMessage = message
	p.OfflineUntil = nil
}

// GoOfflineUntil switches to timed offline mode ending at the given instant
func (p *Presence) GoOfflineUntil(until time.Time, message string) {
	if message == "" {
		message = DefaultTempOfflineText
	}
	p.Offline = true
	p.OfflineMessage = message
	p.OfflineUntil = &until
}

// ExpireIfDue performs the lazy expiry transition.
// Returns true exactly when the timed offline mode just expired.
func (p *Presence) ExpireIfDue(now time.Time) bool {
	if !p.Offline || p.OfflineUntil == nil {
		return false
	}
	if now.Before(*p.OfflineUntil) {
		return false
	}
	p.GoOnline()
	return true
}

// Clone returns a deep copy
func (p Presence) Clone() Presence {
	cp := p
	if p.OfflineUntil != nil {
		t := *p.OfflineUntil
		cp.OfflineUntil = &t
	}
	return cp
}

// ParseOfflineDuration parses the <n> <unit> pair of the timed offline command.
// Accepted units: m/minute/minutes, h/hour/hours, d/day/days.
func ParseOfflineDuration(value int, unit string) (time.Duration, error) {
	if value <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %d", value)
	}
	switch unit {
	case "m", "minute", "minutes":
		return time.Duration(value) * time.Minute, nil
	case "h", "hour", "hours":
		return time.Duration(value) * time.Hour, nil
	case "d", "day", "days":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid time unit %q", unit)
	}
}
