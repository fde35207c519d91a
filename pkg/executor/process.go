package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// RemoteProcessDirectory finds and signals processes on a remote host. It is
// a capability interface so the interrupt escalation loop can be driven in
// tests without a live host.
type RemoteProcessDirectory interface {
	// FindPIDs returns the IDs of remote processes whose command line
	// matches cmd, excluding the query command itself.
	FindPIDs(ctx context.Context, host, cmd string) ([]string, error)
	// Signal delivers the named signal (INT, TERM, KILL) to one process.
	Signal(ctx context.Context, host, pid, sig string) error
}

// ShellProcessDirectory implements RemoteProcessDirectory through the same
// shell runner and channel used for command dispatch.
type ShellProcessDirectory struct {
	Runner    ShellRunner
	Transport Transport
	Log       *slog.Logger
}

// FindPIDs greps the remote process listing for the literal command text.
// The grep process itself is filtered out; the query runs without privilege
// escalation.
func (d *ShellProcessDirectory) FindPIDs(ctx context.Context, host, cmd string) ([]string, error) {
	psCmd := fmt.Sprintf("ps axu | grep %s | grep -v 'grep' | awk '{print $2}'", ShellQuote(cmd))
	line := fmt.Sprintf("%s %s %s 2>&1", d.Transport.Channel, host, ShellQuote(psCmd))
	res, err := d.Runner.Run(ctx, line, true)
	if err != nil {
		return nil, fmt.Errorf("query remote processes: %w", err)
	}
	return strings.Fields(string(res.Stdout)), nil
}

// Signal delivers sig to pid on host through the escalated channel.
func (d *ShellProcessDirectory) Signal(ctx context.Context, host, pid, sig string) error {
	d.Log.Info("kill remote process", "pid", pid, "host", host, "signal", sig)
	line := fmt.Sprintf("%skill -%s %s", d.Transport.callPrefix(host), sig, pid)
	if _, err := d.Runner.Run(ctx, line, false); err != nil {
		return fmt.Errorf("signal remote process %s: %w", pid, err)
	}
	return nil
}
