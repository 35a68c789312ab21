package orderbook

import "time"

// config holds the book's runtime tunables: the daily cutoff for
// GoodForDay expiry, its wake slack, the clock source, and the
// installed event sink.
type config struct {
	cutoffHour   int
	cutoffMinute int
	slack        time.Duration
	clock        Clock
	sink         EventSink
}

func defaultConfig() config {
	return config{
		cutoffHour:   16,
		cutoffMinute: 0,
		slack:        100 * time.Millisecond,
		clock:        systemClock{},
		sink:         discardSink{},
	}
}

// Option configures an Orderbook at construction time.
type Option func(*config)

// WithExpiryCutoff sets the local daily cutoff at which GoodForDay
// orders are cancelled. Default is 16:00.
func WithExpiryCutoff(hour, minute int) Option {
	return func(c *config) {
		c.cutoffHour = hour
		c.cutoffMinute = minute
	}
}

// WithExpirySlack sets the grace period the expiry worker waits past
// the cutoff before scanning, to ensure the cutoff has truly passed.
// Default is 100ms.
func WithExpirySlack(d time.Duration) Option {
	return func(c *config) { c.slack = d }
}

// WithClock installs the Clock the expiry worker reads to compute its
// wait until the next cutoff. The wait itself runs on a real timer.
func WithClock(clock Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithEventSink installs an event sink. Default discards all events.
func WithEventSink(sink EventSink) Option {
	return func(c *config) { c.sink = sink }
}
