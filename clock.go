package orderbook

import "time"

// Clock abstracts wall-clock time for the day-order expiry worker. The
// worker reads it only to compute how long to wait for the next cutoff;
// the wait itself runs on a real timer, so changing what the Clock
// reports does not wake a worker that is already waiting.
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock, backed by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// nextCutoff returns the next instant strictly after now at which the
// daily cutoff (local hour:minute, plus slack) is crossed. If now is
// already at or past today's cutoff+slack, it schedules tomorrow's.
func nextCutoff(now time.Time, hour, minute int, slack time.Duration) time.Time {
	local := now.Local()
	cutoff := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, local.Location()).Add(slack)
	if !cutoff.After(local) {
		cutoff = cutoff.Add(24 * time.Hour)
	}
	return cutoff
}
