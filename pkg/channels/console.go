package channels

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/taskhub-io/taskhub-alerting/pkg/models"
)

// ConsoleChannel writes alerts as a human-readable block to the local
// error stream. It accepts every severity and never fails.
type ConsoleChannel struct {
	out io.Writer
}

// NewConsoleChannel creates a console channel writing to stderr
func NewConsoleChannel() *ConsoleChannel {
	return &ConsoleChannel{out: os.Stderr}
}

// NewConsoleChannelWithWriter creates a console channel writing to the
// given writer
func NewConsoleChannelWithWriter(out io.Writer) *ConsoleChannel {
	return &ConsoleChannel{out: out}
}

// Name returns the channel name
func (c *ConsoleChannel) Name() string {
	return "console"
}

// SupportsSeverity reports whether the channel accepts the severity
func (c *ConsoleChannel) SupportsSeverity(severity models.Severity) bool {
	return true
}

// Send prints the alert block to the configured writer
func (c *ConsoleChannel) Send(ctx context.Context, alert *models.Alert) error {
	var block strings.Builder

	block.WriteString(strings.Repeat("=", 60) + "\n")
	block.WriteString(fmt.Sprintf("🚨 ALERT [%s] %s\n", strings.ToUpper(string(alert.Severity)), alert.Title))
	block.WriteString(strings.Repeat("-", 60) + "\n")
	block.WriteString(fmt.Sprintf("  ID:         %s\n", alert.ID))
	block.WriteString(fmt.Sprintf("  Error Type: %s\n", alert.ErrorType))
	block.WriteString(fmt.Sprintf("  Time:       %s\n", alert.CreatedAt.Format(time.RFC3339)))
	if alert.RequestID != "" {
		block.WriteString(fmt.Sprintf("  Request ID: %s\n", alert.RequestID))
	}
	block.WriteString(fmt.Sprintf("  Message:    %s\n", alert.Message))
	if len(alert.Metadata) > 0 {
		block.WriteString("  Metadata:\n")
		keys := make([]string, 0, len(alert.Metadata))
		for key := range alert.Metadata {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			block.WriteString(fmt.Sprintf("    %s: %v\n", key, alert.Metadata[key]))
		}
	}
	block.WriteString(strings.Repeat("=", 60) + "\n")

	fmt.Fprint(c.out, block.String())
	return nil
}
