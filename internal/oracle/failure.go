package oracle

import (
	"fmt"
	"strings"

	"mtkeras/internal/domain"
	"mtkeras/internal/logging"
	"mtkeras/internal/telemetry"
)

type FailureMode int

const (
	// FailFast propagates the failure and aborts the evaluation.
	FailFast FailureMode = iota
	// UseDefault substitutes FailurePolicy.Default for the failed element.
	UseDefault
)

func ParseFailureMode(s string) (FailureMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail", "error":
		return FailFast, nil
	case "default":
		return UseDefault, nil
	}
	return FailFast, fmt.Errorf("unknown oracle failure mode %q", s)
}

func (m FailureMode) String() string {
	if m == UseDefault {
		return "default"
	}
	return "fail"
}

// FailurePolicy decides what a flaky external call turns into.
// The zero value fails fast.
type FailurePolicy struct {
	Mode    FailureMode
	Default domain.Output
}

func (p FailurePolicy) handle(oracle string, index int, err error) (domain.Output, error) {
	if p.Mode != UseDefault {
		return nil, domain.OracleFailureError{Oracle: oracle, Index: index, Err: err}
	}
	telemetry.OracleFailures.WithLabelValues(oracle).Inc()
	logging.L().Warn("oracle failure replaced by default", "oracle", oracle, "index", index, "default", p.Default, "err", err)
	return p.Default, nil
}
