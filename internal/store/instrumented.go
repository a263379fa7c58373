package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"resala-backend/internal/logging"
)

// Observer receives one callback per backend call
type Observer interface {
	ObserveStoreCall(table, op string, err error, d time.Duration)
}

// Instrumented decorates a Backend with metrics, failure logging and a per-call timeout
type Instrumented struct {
	next     Backend
	observer Observer
	timeout  time.Duration
	logger   zerolog.Logger
}

// Instrument wraps next. A zero timeout leaves the caller's context untouched.
func Instrument(next Backend, observer Observer, timeout time.Duration) *Instrumented {
	return &Instrumented{
		next:     next,
		observer: observer,
		timeout:  timeout,
		logger:   logging.NewComponentLogger("store"),
	}
}

func (i *Instrumented) ListRecords(ctx context.Context, table string) ([]Record, error) {
	var records []Record
	err := i.call(ctx, table, "list", func(ctx context.Context) error {
		var err error
		records, err = i.next.ListRecords(ctx, table)
		return err
	})
	return records, err
}

func (i *Instrumented) AppendRecord(ctx context.Context, table string, values []string) error {
	return i.call(ctx, table, "append", func(ctx context.Context) error {
		return i.next.AppendRecord(ctx, table, values)
	})
}

func (i *Instrumented) UpdateCell(ctx context.Context, table, keyColumn, key, column, value string) error {
	return i.call(ctx, table, "update", func(ctx context.Context) error {
		return i.next.UpdateCell(ctx, table, keyColumn, key, column, value)
	})
}

func (i *Instrumented) Ping(ctx context.Context) error {
	return i.call(ctx, "", "ping", i.next.Ping)
}

func (i *Instrumented) call(ctx context.Context, table, op string, fn func(context.Context) error) error {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	if i.observer != nil {
		i.observer.ObserveStoreCall(table, op, err, elapsed)
	}
	if err != nil {
		i.logger.Error().Err(err).
			Str(logging.TABLE, table).
			Str(logging.OP, op).
			Dur("elapsed", elapsed).
			Msg("record store call failed")
	}
	return err
}
