package pipeline

import (
	"errors"
	"testing"

	"github.com/ormasoftchile/runpipe/pkg/schema"
)

func TestNewStep_Assignment(t *testing.T) {
	tests := []struct {
		key        string
		assignment bool
		assignVar  string
		normalized string
	}{
		{"local", false, "", "local"},
		{"result=local", true, "result", "local"},
		{"out=remote@web1", true, "out", "remote@web1"},
		{"manual", false, "", "manual"},
		{"a=b=local", true, "a", "b=local"},
	}
	for _, tt := range tests {
		s := NewStep(schema.Entry{Key: tt.key, Value: "x"}, 1)
		if s.Assignment != tt.assignment || s.AssignmentVar != tt.assignVar || s.Key != tt.normalized {
			t.Errorf("NewStep(%q) = {%v %q %q}, want {%v %q %q}",
				tt.key, s.Assignment, s.AssignmentVar, s.Key, tt.assignment, tt.assignVar, tt.normalized)
		}
		if s.OriginalKey != tt.key {
			t.Errorf("OriginalKey = %q, want %q", s.OriginalKey, tt.key)
		}
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		key  string
		kind Kind
	}{
		{"local", KindLocal},
		{"manual", KindManual},
		{"python", KindInterpreted},
		{"remote@web1", KindRemote},
		{"remote@db-primary", KindRemote},
	}
	for _, tt := range tests {
		s := NewStep(schema.Entry{Key: tt.key}, 1)
		kind, err := s.Kind()
		if err != nil {
			t.Errorf("Kind(%q): %v", tt.key, err)
			continue
		}
		if kind != tt.kind {
			t.Errorf("Kind(%q) = %q, want %q", tt.key, kind, tt.kind)
		}
	}
}

func TestKind_Unknown(t *testing.T) {
	s := NewStep(schema.Entry{Key: "ruby"}, 1)
	_, err := s.Kind()
	var kindErr *UnknownCommandKindError
	if !errors.As(err, &kindErr) {
		t.Fatalf("expected UnknownCommandKindError, got %v", err)
	}
	if kindErr.Key != "ruby" {
		t.Errorf("offending key = %q", kindErr.Key)
	}

	// A second "=" in the key is part of the kind token, never the name.
	s = NewStep(schema.Entry{Key: "a=b=local"}, 1)
	if _, err := s.Kind(); !errors.As(err, &kindErr) {
		t.Fatalf("expected UnknownCommandKindError, got %v", err)
	}
	if kindErr.Key != "b=local" {
		t.Errorf("offending key = %q", kindErr.Key)
	}
}

func TestSystem(t *testing.T) {
	run := &Context{Systems: map[string]string{"web1": "web1.example.com"}}

	s := NewStep(schema.Entry{Key: "remote@web1"}, 1)
	host, err := s.System(run)
	if err != nil {
		t.Fatal(err)
	}
	if host != "web1.example.com" {
		t.Errorf("host = %q", host)
	}
}

func TestSystem_UnknownHost(t *testing.T) {
	run := &Context{Systems: map[string]string{"web1": "web1.example.com"}}

	s := NewStep(schema.Entry{Key: "remote@db9"}, 1)
	_, err := s.System(run)
	var hostErr *UnknownHostError
	if !errors.As(err, &hostErr) {
		t.Fatalf("expected UnknownHostError, got %v", err)
	}
	if hostErr.Name != "db9" {
		t.Errorf("host name = %q", hostErr.Name)
	}
}
