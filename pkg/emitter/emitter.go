package emitter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/outcheck/pkg/logging"
	"github.com/ccollicutt/outcheck/pkg/scanner"
)

// Emitter writes one selection set per non-empty emittable category.
type Emitter struct {
	dialect Dialect
	logger  logging.Logger
}

// New creates an Emitter for the given dialect.
func New(d Dialect, logger logging.Logger) *Emitter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Emitter{dialect: d, logger: logger}
}

// Dialect returns the emitter's dialect.
func (e *Emitter) Dialect() Dialect {
	return e.dialect
}

// Emit writes the script for the finalized aggregator to w, in category
// order. Timing categories and empty categories are skipped. It returns the
// number of sets written.
func (e *Emitter) Emit(ctx context.Context, agg *scanner.Aggregator, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	e.dialect.Begin(bw)

	sets := 0
	for _, c := range scanner.Categories() {
		if err := ctx.Err(); err != nil {
			return sets, err
		}
		ids := agg.Values(c)
		if !c.Emittable() || len(ids) == 0 {
			continue
		}
		e.dialect.Set(bw, c.Label(), c.Kind(), ids)
		sets++
		e.logger.WithFields(logging.Fields{
			"dialect": e.dialect.Name(),
			"set":     c.Label(),
			"kind":    c.Kind().String(),
			"ids":     len(ids),
		}).Debug("set written")
	}

	e.dialect.End(bw)
	if err := bw.Flush(); err != nil {
		return sets, fmt.Errorf("writing %s script: %w", e.dialect.Name(), err)
	}
	return sets, nil
}

// EmitTying writes the tying companion file: one line per inserted node
// followed by its host nodes.
func EmitTying(w io.Writer, records []scanner.TyingRecord) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		fields := append([]string{r.Inserted}, r.Hosts...)
		fmt.Fprintln(bw, strings.Join(fields, " "))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing tying file: %w", err)
	}
	return nil
}
