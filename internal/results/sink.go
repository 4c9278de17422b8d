package results

import (
	"context"
	"errors"
)

// Sink receives every finalized answer as soon as it is produced.
type Sink interface {
	Write(ctx context.Context, rec Record) error
	Close() error
}

// LifecycleSink is implemented by sinks that also keep session lifecycle
// events.
type LifecycleSink interface {
	WriteSessionEvent(ctx context.Context, ev SessionEvent) error
}

// Nop discards everything.
type Nop struct{}

func (Nop) Write(context.Context, Record) error { return nil }
func (Nop) Close() error                        { return nil }

// Multi fans records out to several sinks. Every sink is attempted; the
// returned error joins all failures.
type Multi []Sink

func (m Multi) Write(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteSessionEvent forwards ev to the members that keep lifecycle events.
func (m Multi) WriteSessionEvent(ctx context.Context, ev SessionEvent) error {
	var errs []error
	for _, s := range m {
		if ls, ok := s.(LifecycleSink); ok {
			if err := ls.WriteSessionEvent(ctx, ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
