package altofs

import "log"

// Reporter is the error sink integrity checking writes its diagnostics
// through, one message per failed check (a page can fail several). The
// other operations take no Reporter; they report failure through their
// returned error.
type Reporter interface {
	Error(format string, args ...any)
	Info(format string, args ...any)
}

// LogReporter writes diagnostics through the standard library logger.
type LogReporter struct {
	*log.Logger
}

// NewLogReporter returns a Reporter backed by a *log.Logger.
func NewLogReporter(l *log.Logger) LogReporter {
	return LogReporter{Logger: l}
}

func (r LogReporter) Error(format string, args ...any) {
	r.Printf("error: "+format, args...)
}

func (r LogReporter) Info(format string, args ...any) {
	r.Printf(format, args...)
}

// NullReporter discards every diagnostic. Library callers who only want
// the boolean/error result of an operation can pass this.
type NullReporter struct{}

func (NullReporter) Error(string, ...any) {}
func (NullReporter) Info(string, ...any)  {}
