// Package frame generates the finite, ordered timestamp sequence a backtest
// walks (§4.4's timeframes).
package frame

import (
	"time"

	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
)

// Core generates timeframes from registered FrameSchemas.
type Core struct{}

// New returns a Core. It holds no state; generation is a pure function of
// its FrameSchema argument.
func New() *Core {
	return &Core{}
}

// Generate returns the ordered sequence of timestamps for schema: the first
// element equals StartDate, the last is strictly before EndDate, and
// successive elements differ by exactly schema.Interval's duration.
func (c *Core) Generate(schema types.FrameSchema) ([]time.Time, error) {
	if !schema.Interval.Valid() {
		return nil, errors.Newf(errors.ErrCodeConfigInvalidInterval, "frame schema %q has invalid interval %q", schema.Name, schema.Interval)
	}

	if !schema.StartDate.Before(schema.EndDate) {
		return nil, errors.Newf(errors.ErrCodeConfigInvalidValue, "frame schema %q has startDate not before endDate", schema.Name)
	}

	step := schema.Interval.Duration()

	count := int(schema.EndDate.Sub(schema.StartDate)/step) + 1
	timestamps := make([]time.Time, 0, count)

	for when := schema.StartDate; when.Before(schema.EndDate); when = when.Add(step) {
		timestamps = append(timestamps, when)
	}

	return timestamps, nil
}
