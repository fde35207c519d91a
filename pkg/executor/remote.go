package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ormasoftchile/runpipe/pkg/logging"
	"github.com/ormasoftchile/runpipe/pkg/pipeline"
	"github.com/ormasoftchile/runpipe/pkg/prompt"
)

// RemoteStagingDir is the directory created on the target host when import
// scripts are staged for a remote command.
const RemoteStagingDir = "runpipe_tmp"

// Transport builds the shell text that reaches a host over the secure
// remote-execution channel.
type Transport struct {
	Channel  string // channel binary, e.g. "ssh"
	Escalate string // remote privilege escalation prefix, e.g. "sudo"
}

// DefaultTransport is the stock channel: ssh with sudo escalation.
var DefaultTransport = Transport{Channel: "ssh", Escalate: "sudo"}

// callPrefix returns the channel invocation every escalated remote command
// line starts with, e.g. "ssh web1 sudo ".
func (t Transport) callPrefix(host string) string {
	if t.Escalate == "" {
		return fmt.Sprintf("%s %s ", t.Channel, host)
	}
	return fmt.Sprintf("%s %s %s ", t.Channel, host, t.Escalate)
}

// Remote stages import scripts, dispatches the step's command over the
// remote channel as one local subprocess, and supervises interrupts.
type Remote struct {
	Runner     ShellRunner
	Processes  RemoteProcessDirectory
	Prompter   prompt.Prompter
	Transport  Transport
	ImportRoot string
	Log        *slog.Logger
}

// Execute runs the step's resolved command on its target host.
//
// When imports are configured they are packed from the local import root
// into a tar stream piped through the channel, unpacked into a freshly
// created staging directory, and the remote command is rebuilt to source
// them from there. The whole remote invocation is wrapped in a single
// `bash -c` and quoted into the channel call.
//
// An operator interrupt while the remote command runs does not stop the
// remote side: SSH does not reliably propagate the signal. The exit code is
// set to 130 and matching remote PIDs are discovered and signalled in an
// interactive escalation loop until none remain or the operator proceeds.
//
// When staging occurred, removal of the staging directory is attempted
// exactly once afterward on every path; a cleanup failure is logged as a
// warning and never masks the primary exit code.
func (r *Remote) Execute(ctx context.Context, step *pipeline.Step, run *pipeline.Context) (int, error) {
	host, err := step.System(run)
	if err != nil {
		return 0, err
	}
	resolved, err := step.Resolve(run)
	if err != nil {
		return 0, err
	}

	remoteCmd := resolved
	prefix := ""
	staged := len(run.Imports) > 0
	if staged {
		root := r.ImportRoot
		if root == "" {
			root = "."
		}
		prefix = "tar -C " + root + " -cf - " + strings.Join(run.Imports, " ") + " | "
		built, err := step.BuildCommand(run, RemoteStagingDir)
		if err != nil {
			return 0, err
		}
		remoteCmd = fmt.Sprintf("mkdir %s; tar -C %s -xf -; %s", RemoteStagingDir, RemoteStagingDir, built)
	}
	line := prefix + r.Transport.callPrefix(host) + ShellQuote("bash -c "+ShellQuote(remoteCmd))

	res, err := r.Runner.Run(ctx, line, step.Assignment)
	if err != nil {
		if staged {
			r.cleanup(ctx, host)
		}
		return 0, err
	}

	exit := res.ExitCode
	if res.Interrupted {
		r.Log.Info("command interrupted by operator, exit code set to 130")
		exit = ExitInterrupted
		if err := r.handleOrphans(ctx, host, resolved); err != nil {
			r.Log.Warn("remote interrupt handling incomplete", "error", err)
		}
		r.Log.Info("keystroke interrupt handled")
	} else if step.Assignment {
		out := string(res.Stdout)
		run.Variables[step.AssignmentVar] = out
		r.Log.Info("variable assigned", "name", step.AssignmentVar, "value", out)
	}

	if staged {
		r.cleanup(ctx, host)
	}
	return exit, nil
}

// handleOrphans drives the escalating signal loop: query matching PIDs,
// prompt for a signal, deliver it to every PID, re-query — until no PIDs
// remain or the operator chooses to proceed without killing.
func (r *Remote) handleOrphans(ctx context.Context, host, cmd string) error {
	pids, err := r.Processes.FindPIDs(ctx, host, cmd)
	if err != nil {
		return err
	}
	for len(pids) > 0 {
		logging.Notice(r.Log, "remote command seems still to be running", "pids", strings.Join(pids, ","))
		answer, err := r.Prompter.Choose("What should I do?", []prompt.Option{
			{Key: "i", Label: "send SIGINT"},
			{Key: "t", Label: "send SIGTERM"},
			{Key: "k", Label: "send SIGKILL"},
			{Key: "p", Label: "do nothing and proceed"},
		}, "i")
		if err != nil {
			return err
		}
		if answer == "p" {
			break
		}
		sig := "INT"
		switch answer {
		case "t":
			sig = "TERM"
		case "k":
			sig = "KILL"
		}
		for _, pid := range pids {
			if err := r.Processes.Signal(ctx, host, pid, sig); err != nil {
				r.Log.Warn("signal remote process", "pid", pid, "error", err)
			}
		}
		pids, err = r.Processes.FindPIDs(ctx, host, cmd)
		if err != nil {
			return err
		}
	}
	return nil
}

// cleanup removes the remote staging directory. A failure is logged as a
// warning and never escalated past this method.
func (r *Remote) cleanup(ctx context.Context, host string) {
	line := fmt.Sprintf("%srm -r %s", r.Transport.callPrefix(host), RemoteStagingDir)
	res, err := r.Runner.Run(ctx, line, false)
	if err != nil {
		r.Log.Warn("remove remote staging dir", "dir", RemoteStagingDir, "error", err)
		return
	}
	if res.ExitCode != 0 {
		r.Log.Warn("failed to remove remote staging dir", "dir", RemoteStagingDir, "exitcode", res.ExitCode)
	}
}
