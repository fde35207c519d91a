package pipeline

import (
	"strings"
	"testing"

	"github.com/ormasoftchile/runpipe/pkg/schema"
)

func TestLint_Valid(t *testing.T) {
	p := &schema.Pipeline{
		Name:    "ok",
		Systems: map[string]string{"web1": "web1.example.com"},
		Pipeline: []schema.Entry{
			{Key: "local", Value: "echo hi"},
			{Key: "manual", Value: "check it"},
			{Key: "out=python", Value: "1 + 1"},
			{Key: "remote@web1", Value: "uptime"},
		},
	}
	if errs := Lint(p); len(errs) != 0 {
		t.Fatalf("unexpected lint errors: %v", errs)
	}
}

func TestLint_UnknownKind(t *testing.T) {
	p := &schema.Pipeline{
		Name:     "bad",
		Pipeline: []schema.Entry{{Key: "ruby", Value: "puts 1"}},
	}
	errs := Lint(p)
	if len(errs) != 1 {
		t.Fatalf("got %d errors", len(errs))
	}
	if errs[0].Path != "pipeline[0]" || !strings.Contains(errs[0].Message, "ruby") {
		t.Errorf("error = %+v", errs[0])
	}
}

func TestLint_UnregisteredHost(t *testing.T) {
	p := &schema.Pipeline{
		Name:     "bad",
		Systems:  map[string]string{"web1": "web1.example.com"},
		Pipeline: []schema.Entry{{Key: "remote@db9", Value: "uptime"}},
	}
	errs := Lint(p)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "db9") {
		t.Fatalf("errors = %v", errs)
	}
}

func TestLint_BadAssignmentName(t *testing.T) {
	p := &schema.Pipeline{
		Name:     "bad",
		Pipeline: []schema.Entry{{Key: "my-var=local", Value: "echo hi"}},
	}
	errs := Lint(p)
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "my-var") {
		t.Fatalf("errors = %v", errs)
	}
}

func TestLint_ManualAssignmentWarning(t *testing.T) {
	p := &schema.Pipeline{
		Name:     "warn",
		Pipeline: []schema.Entry{{Key: "x=manual", Value: "check it"}},
	}
	errs := Lint(p)
	if len(errs) != 1 || errs[0].Severity != "warning" {
		t.Fatalf("errors = %v", errs)
	}
}
