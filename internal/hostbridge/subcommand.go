package hostbridge

import (
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/logger"
)

// loggingSlot logs the subcommand it receives instead of delivering it
// to an application layer.
type loggingSlot struct{}

func (loggingSlot) Set(kind string, fields map[string]any) {
	args := make([]any, 0, 2+2*len(fields))
	args = append(args, "kind", kind)
	for k, v := range fields {
		args = append(args, k, v)
	}
	logger.Info("cc subcommand", args...)
}

// SubcommandSink is a standalone q931.SubcommandSink that logs every
// emitted subcommand. A real deployment replaces this with an adapter
// into its own event bus.
type SubcommandSink struct{}

// NewSubcommandSink builds a standalone SubcommandSink.
func NewSubcommandSink() *SubcommandSink {
	return &SubcommandSink{}
}

func (SubcommandSink) AllocSlot(ctrl string) q931.Slot {
	return loggingSlot{}
}
