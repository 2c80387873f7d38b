// Package notify carries human-readable outcomes of auth and API operations
// to whatever surface presents them. The session pipeline and the auth state
// machine emit through this interface and never render anything themselves.
package notify

import "log/slog"

// Notifier receives one message per user-visible outcome.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to a slog logger. It is the default sink
// for headless use; interactive frontends provide their own.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(msg string) { n.log.Info(msg, "kind", "success") }
func (n *LogNotifier) Info(msg string)    { n.log.Info(msg, "kind", "info") }
func (n *LogNotifier) Error(msg string)   { n.log.Warn(msg, "kind", "error") }

// NoOpNotifier discards all notifications.
type NoOpNotifier struct{}

func (NoOpNotifier) Success(string) {}
func (NoOpNotifier) Info(string)    {}
func (NoOpNotifier) Error(string)   {}
