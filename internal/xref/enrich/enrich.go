// Package enrich looks up supplementary attribute data for a competitor
// order code. Matching never depends on it: a nil record or an error just
// leaves the BOM row with absent attributes.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/time/rate"

	"xref-service/internal/xref/normalize"
)

// Func returns a flat vendor-keyed record for orderCode, or nil when
// nothing is known.
type Func func(ctx context.Context, orderCode string) (normalize.Record, error)

// None never finds anything.
func None(context.Context, string) (normalize.Record, error) { return nil, nil }

var ErrCommandFailed = errors.New("enrichment command failed")

// Command runs an external program with the order code as its only argument
// and decodes stdout as one JSON object. An object carrying an "error" key
// is reported as an error.
func Command(name string, args ...string) Func {
	return func(ctx context.Context, orderCode string) (normalize.Record, error) {
		argv := append(append([]string{}, args...), orderCode)
		cmd := exec.CommandContext(ctx, name, argv...)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("%w: %s %s: %v: %s", ErrCommandFailed, name, orderCode, err, strings.TrimSpace(stderr.String()))
		}
		return decode(stdout.Bytes())
	}
}

// ParseCommand splits a configured command line ("python search_components.py").
// Quoting is not supported; an empty line yields None.
func ParseCommand(line string) Func {
	f := strings.Fields(line)
	if len(f) == 0 {
		return None
	}
	return Command(f[0], f[1:]...)
}

func decode(out []byte) (normalize.Record, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 || bytes.Equal(out, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(out))
	var rec normalize.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: decode output: %v", ErrCommandFailed, err)
	}
	if msg, ok := rec["error"]; ok {
		return nil, fmt.Errorf("%w: %v", ErrCommandFailed, msg)
	}
	if len(rec) == 0 {
		return nil, nil
	}
	return rec, nil
}

// Limit throttles f to rps calls per second (burst 1). rps <= 0 disables
// the limit. Waiting honours ctx.
func Limit(f Func, rps float64) Func {
	if rps <= 0 {
		return f
	}
	lim := rate.NewLimiter(rate.Limit(rps), 1)
	return func(ctx context.Context, orderCode string) (normalize.Record, error) {
		if err := lim.Wait(ctx); err != nil {
			return nil, err
		}
		return f(ctx, orderCode)
	}
}

// Static serves records from a fixed map keyed by order code.
func Static(m map[string]normalize.Record) Func {
	return func(_ context.Context, orderCode string) (normalize.Record, error) {
		return m[orderCode], nil
	}
}
