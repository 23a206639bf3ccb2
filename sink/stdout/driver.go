package stdout

import (
	"fmt"
	"io"
	"os"
	"sync"

	"mtkeras/internal/relation"
	"mtkeras/sink"
)

/* ────────── config ────────── */
type Config struct {
	Out          io.Writer // os.Stdout when nil
	PrintCounter bool      // prepend seq#
	PrintIndices bool      // list the violating indices after the summary
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config

	mu  sync.Mutex
	seq uint64
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	d.cfg = c
	return nil
}

func (d *driver) Push(r relation.Report) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cfg.Out == nil {
		d.cfg.Out = os.Stdout
	}

	if d.cfg.PrintCounter {
		d.seq++
		if _, err := fmt.Fprintf(d.cfg.Out, "[sink %06d] ", d.seq); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(d.cfg.Out, r.String()); err != nil {
		return err
	}
	if d.cfg.PrintIndices && r.Count() > 0 {
		_, err := fmt.Fprintf(d.cfg.Out, "violating indices: %v\n", r.Violations)
		return err
	}
	return nil
}

func (d *driver) Close() error { return nil }

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}
