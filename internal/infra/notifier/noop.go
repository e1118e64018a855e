package notifier

import "context"

// NoOpNotifier is a disabled channel. It follows the Null Object pattern so
// callers never check for nil.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Name implements Notifier.
func (n *NoOpNotifier) Name() string { return "noop" }

// IsEnabled always returns false.
func (n *NoOpNotifier) IsEnabled() bool { return false }

// Notify does nothing and returns nil immediately.
func (n *NoOpNotifier) Notify(ctx context.Context, alert Alert) error {
	return nil
}
