package services

import (
	"time"

	"moneymanager/internal/log"
)

type options struct {
	now    func() time.Time
	logger *log.Logger
}

// Option configures a service.
type Option func(*options)

// WithClock replaces time.Now. Tests use it to move across the editable window.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(component string, opts []Option) options {
	o := options{
		now:    time.Now,
		logger: log.New(log.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.WithComponent(component)
	return o
}

func (o options) clock() time.Time {
	return o.now().UTC()
}
