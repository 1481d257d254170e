package assembler

// Logger is the leveled-logging surface Assemble reports its progress
// through, matching spec.md §6.6's "log(level, fmt, args)" collaborator
// contract. *logrus.Logger satisfies this directly, so callers pass one
// straight into WithLogger without an adapter.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// Option configures an Assembler at construction time.
type Option func(*Assembler)

// WithLogger attaches a logger the assembler reports per-line diagnostics
// through during Assemble. Omitting it leaves a silent no-op logger.
func WithLogger(log Logger) Option {
	return func(a *Assembler) { a.log = log }
}
