// Package diag collects human-readable diagnostics emitted while normalizing
// a recipe corpus.
//
// Diagnostics describe per-recipe and per-tag faults that do not stop the
// batch: a missing tag, a defaulted count, a recipe skipped for a malformed
// ingredient. Each one names the offending recipe or tag so the report can
// be acted on.
package diag

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crafttable/pkg/errors"
)

// Severity grades a diagnostic.
type Severity int

const (
	// Warning means the input was accepted with a default or fallback.
	Warning Severity = iota
	// Error means the input was skipped.
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is one reported fault.
type Diagnostic struct {
	Severity Severity
	Code     errors.Code
	Subject  string // e.g. "recipe minecraft/torch" or "tag #minecraft:logs"
	Message  string
}

// String renders the diagnostic as a single report line.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s: %s", d.Severity, d.Code, d.Subject, d.Message)
}

// Sink receives diagnostics.
type Sink interface {
	Report(d Diagnostic)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

// FromError converts a coded error into a diagnostic about subject.
// Errors without a code are reported as INTERNAL_ERROR.
func FromError(sev Severity, subject string, err error) Diagnostic {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Subject:  subject,
		Message:  errors.UserMessage(err),
	}
}

// Collector records diagnostics in report order and optionally logs them.
// It is safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	items  []Diagnostic
	logger *log.Logger
}

// NewCollector returns a collector. If logger is non-nil, every diagnostic is
// also logged: warnings at warn level and errors at error level.
func NewCollector(logger *log.Logger) *Collector {
	return &Collector{logger: logger}
}

// Report records d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()

	if c.logger == nil {
		return
	}
	kv := []any{"code", d.Code, "subject", d.Subject}
	if d.Severity == Error {
		c.logger.Error(d.Message, kv...)
	} else {
		c.logger.Warn(d.Message, kv...)
	}
}

// All returns a copy of the recorded diagnostics.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Count returns how many recorded diagnostics carry code.
func (c *Collector) Count(code errors.Code) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.items {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Errors returns how many recorded diagnostics have Error severity.
func (c *Collector) Errors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.items {
		if d.Severity == Error {
			n++
		}
	}
	return n
}
