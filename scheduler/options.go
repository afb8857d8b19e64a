package scheduler

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeSlice = 5 * time.Millisecond

type options struct {
	logger     zerolog.Logger
	clock      Clock
	timeSlice  time.Duration
	yieldAfter int
}

type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.WarnLevel).
			With().Timestamp().Str("component", "scheduler").
			Logger(),
		clock:      realClock{},
		timeSlice:  defaultTimeSlice,
		yieldAfter: -1,
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces the wall clock, typically with a *ManualClock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func WithTimeSlice(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeSlice = d
		}
	}
}

// WithYieldAfter is the option form of Scheduler.YieldAfter.
func WithYieldAfter(n int) Option {
	return func(o *options) { o.yieldAfter = n }
}
