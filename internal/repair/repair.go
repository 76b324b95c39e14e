// Package repair turns near-JSON text into valid JSON.
//
// The Repairer runs a fixed sequence of rewrite passes (see Passes), checks
// the result with a strict JSON parser and, when that fails, retries with a
// structural wrapping of the input. A result is only ever returned if it
// parses; everything else is reported as ErrUnrepairable.
package repair

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/parser"
)

// Repairer repairs broken JSON text. It is safe for concurrent use.
type Repairer struct {
	passes []Pass
	deep   bool
	debug  bool
}

var defaultRepairer = NewRepairer()

// NewRepairer creates a Repairer with the default pipeline.
func NewRepairer() *Repairer {
	return &Repairer{passes: Passes()}
}

// NewRepairerWithConfig creates a Repairer honouring the repair and debug settings.
func NewRepairerWithConfig(cfg *config.Config) *Repairer {
	r := NewRepairer()
	r.deep = cfg.Repair.Deep
	r.debug = cfg.Dev.Debug
	return r
}

// Repair repairs text with the default Repairer.
func Repair(text string) (string, error) {
	return defaultRepairer.Repair(text)
}

// Repair returns text unchanged when it is already valid JSON, otherwise the
// best-effort repaired document.
func (r *Repairer) Repair(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.NewInputError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	if parser.Check(text) == nil {
		return text, nil
	}

	trimmed := strings.TrimSpace(text)
	fixed := r.run(trimmed)
	lastErr := parser.Check(fixed)
	if lastErr == nil {
		return fixed, nil
	}
	r.logf("repair: pipeline result still invalid: %v", lastErr)

	for _, candidate := range []string{
		wrap(fixed),
		r.run(wrap(trimmed)),
	} {
		if lastErr = parser.Check(candidate); lastErr == nil {
			r.logf("repair: aggressive fallback succeeded")
			return candidate, nil
		}
	}
	r.logf("repair: aggressive fallback failed: %v", lastErr)

	if r.deep {
		if out, ok := r.deepRepair(text); ok {
			return out, nil
		}
	}

	var syntaxErr *parser.SyntaxError
	switch {
	case stderrors.As(lastErr, &syntaxErr):
		lastErr = syntaxErr
	case stderrors.Is(lastErr, errors.ErrEmptyInput):
		// only comments or whitespace survived the passes
		lastErr = stderrors.New("no JSON content left after repair")
	}
	return "", errors.NewRepairError("unable to repair JSON", fmt.Errorf("%w: %w", errors.ErrUnrepairable, lastErr))
}

// run applies every pass in order.
func (r *Repairer) run(text string) string {
	for _, p := range r.passes {
		out := p.Apply(text)
		if r.debug && out != text {
			logx.Debugf("repair: pass %s rewrote %d -> %d bytes", p.Name, len(text), len(out))
		}
		text = out
	}
	return text
}

// wrap applies the structural last-resort fixes: braces around bare
// key/value text and a missing final closer.
func wrap(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") && strings.Contains(text, ":") {
		text = "{" + text + "}"
	}
	if strings.HasPrefix(text, "[") && !strings.HasSuffix(text, "]") {
		text += "]"
	}
	if strings.HasPrefix(text, "{") && !strings.HasSuffix(text, "}") {
		text += "}"
	}
	return text
}

// deepRepair delegates to kaptinlin/jsonrepair and accepts its output only
// when it parses.
func (r *Repairer) deepRepair(text string) (string, bool) {
	out, err := jsonrepair.JSONRepair(text)
	if err != nil {
		r.logf("repair: deep repair failed: %v", err)
		return "", false
	}
	if err := parser.Check(out); err != nil {
		r.logf("repair: deep repair produced invalid JSON: %v", err)
		return "", false
	}
	r.logf("repair: deep repair succeeded")
	return out, true
}

func (r *Repairer) logf(format string, args ...any) {
	if r.debug {
		logx.Debugf(format, args...)
	}
}
