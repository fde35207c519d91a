package executor

import (
	"context"
	"io"
	"log/slog"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRunner records every command line and replays scripted results.
// Once the script is exhausted it returns clean zero-exit results.
type fakeRunner struct {
	commands []string
	captures []bool
	results  []*RunResult
	next     int
}

func (f *fakeRunner) Run(ctx context.Context, command string, capture bool) (*RunResult, error) {
	f.commands = append(f.commands, command)
	f.captures = append(f.captures, capture)
	if f.next < len(f.results) {
		res := f.results[f.next]
		f.next++
		return res, nil
	}
	return &RunResult{}, nil
}

// fakeDirectory replays scripted PID query results and records signals.
type fakeDirectory struct {
	pidSets [][]string
	queries int
	signals []string // "host/pid/sig"
}

func (f *fakeDirectory) FindPIDs(ctx context.Context, host, cmd string) ([]string, error) {
	f.queries++
	if len(f.pidSets) == 0 {
		return nil, nil
	}
	pids := f.pidSets[0]
	f.pidSets = f.pidSets[1:]
	return pids, nil
}

func (f *fakeDirectory) Signal(ctx context.Context, host, pid, sig string) error {
	f.signals = append(f.signals, host+"/"+pid+"/"+sig)
	return nil
}
