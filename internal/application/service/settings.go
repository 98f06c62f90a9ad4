package service

import (
	"context"
	"time"
)

// Settings carries the runtime knobs shared by all services.
type Settings struct {
	// Location is the business timezone used for document dates and periods.
	Location *time.Location
	// OperationTimeout bounds every service call. Zero disables the bound.
	OperationTimeout time.Duration
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

func (s Settings) withDefaults() Settings {
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	return s
}

// now returns the current time in the business timezone.
func (s Settings) now() time.Time {
	return s.Now().In(s.Location)
}

// today returns midnight of the current business day.
func (s Settings) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.Location)
}

func (s Settings) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.OperationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.OperationTimeout)
}
