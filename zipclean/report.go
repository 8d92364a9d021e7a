package zipclean

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Reporter receives the human-readable status and error lines produced
// while archives are processed.
type Reporter interface {
	Report(message string)
}

// LogReporter writes each message as a single logrus line.
type LogReporter struct {
	Logger logrus.FieldLogger
}

// NewLogReporter returns a LogReporter backed by l, or by the standard
// logrus logger when l is nil.
func NewLogReporter(l logrus.FieldLogger) *LogReporter {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogReporter{Logger: l}
}

func (r *LogReporter) Report(message string) {
	r.Logger.Info(message)
}

// Recorder keeps every reported message in order.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Report(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func reportf(r Reporter, format string, args ...any) {
	r.Report(fmt.Sprintf(format, args...))
}
