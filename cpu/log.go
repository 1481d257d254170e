package cpu

// Logger is the leveled-logging surface the fetch-decode-execute loop
// reports through, matching spec.md §6.6's "log(level, fmt, args)"
// collaborator contract. *logrus.Logger satisfies this directly.
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

// Option configures a CPU at construction time.
type Option func(*CPU)

// WithLogger attaches a logger the CPU reports per-step diagnostics
// through during Emulate. Omitting it leaves a silent no-op logger.
func WithLogger(log Logger) Option {
	return func(c *CPU) { c.log = log }
}
