package export

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier delivers an artifact reference to a recipient. Real delivery
// channels (email etc.) live outside this module.
type Notifier interface {
	Deliver(ctx context.Context, artifactRef, recipient string) error
}

// LogNotifier records the delivery instead of sending anything. It is
// the default wiring when no delivery channel is configured.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Deliver logs the would-be delivery and succeeds.
func (n *LogNotifier) Deliver(ctx context.Context, artifactRef, recipient string) error {
	n.log.Info().
		Str("artifact", artifactRef).
		Str("recipient", recipient).
		Msg("notification recorded")
	return nil
}
