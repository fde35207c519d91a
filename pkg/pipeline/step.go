// Package pipeline implements the per-step execution core: key
// classification, placeholder resolution, and shell command building.
package pipeline

import (
	"strings"

	"github.com/ormasoftchile/runpipe/pkg/schema"
)

// Kind is the execution kind a step key classifies into.
type Kind string

const (
	KindLocal       Kind = "local"
	KindManual      Kind = "manual"
	KindInterpreted Kind = "interpreted"
	KindRemote      Kind = "remote"
)

// remoteMarker splits a remote step key into the kind token and the symbolic
// host name that follows it.
const remoteMarker = "remote@"

// interpretedKeyword is the reserved key token for in-process actions.
const interpretedKeyword = "python"

// Step is one pipeline entry, constructed once per entry at dispatch time.
// A Step is immutable; executing it may mutate the shared Context variables.
type Step struct {
	OriginalKey   string // raw key text, e.g. "remote@web1", "result=local"
	Assignment    bool   // does this step capture output into a variable
	AssignmentVar string // target variable name, empty if none
	Key           string // key with any "name=" prefix stripped
	ValueTemplate string // unresolved command text
	Index         int    // 1-based pipeline position, display only
}

// NewStep builds a Step from a decoded pipeline entry. index is the step's
// 1-based position in the pipeline.
//
// The first "=" ends the assignment name. A key like "a=b=local" therefore
// parses as name "a" with the unclassifiable kind "b=local" and is rejected
// at classification. A name containing "=" could never be resolved as a
// placeholder, so no valid pipeline reads differently under this split.
func NewStep(entry schema.Entry, index int) *Step {
	assignVar, key, assigned := strings.Cut(entry.Key, "=")
	if !assigned {
		assignVar, key = "", entry.Key
	}
	return &Step{
		OriginalKey:   entry.Key,
		Assignment:    assigned,
		AssignmentVar: assignVar,
		Key:           key,
		ValueTemplate: entry.Value,
		Index:         index,
	}
}

// Kind classifies the step by its normalized key. An unrecognized key is a
// static authoring error and fails with UnknownCommandKindError.
func (s *Step) Kind() (Kind, error) {
	switch s.Key {
	case "local":
		return KindLocal, nil
	case "manual":
		return KindManual, nil
	case interpretedKeyword:
		return KindInterpreted, nil
	}
	if strings.Contains(s.Key, remoteMarker) {
		return KindRemote, nil
	}
	return "", &UnknownCommandKindError{Key: s.Key}
}

// HostName returns the symbolic host name embedded in a remote step key,
// or "" for non-remote keys.
func (s *Step) HostName() string {
	if i := strings.Index(s.Key, remoteMarker); i >= 0 {
		return s.Key[i+len(remoteMarker):]
	}
	return ""
}

// System resolves the step's symbolic host through the run's systems table.
// An unregistered name fails with UnknownHostError rather than falling back
// to localhost.
func (s *Step) System(run *Context) (string, error) {
	name := s.HostName()
	host, ok := run.Systems[name]
	if !ok {
		return "", &UnknownHostError{Name: name}
	}
	return host, nil
}
