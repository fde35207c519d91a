package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func writePipeline(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateFile_Valid(t *testing.T) {
	path := writePipeline(t, samplePipeline)
	p, errs := ValidateFile(path)
	if len(errs) > 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if p == nil || p.Name != "deploy" {
		t.Fatalf("pipeline not returned: %+v", p)
	}
}

func TestValidateFile_Structural(t *testing.T) {
	path := writePipeline(t, "name: [broken\n")
	_, errs := ValidateFile(path)
	if len(errs) == 0 {
		t.Fatal("expected structural error")
	}
	if errs[0].Phase != "structural" {
		t.Errorf("phase = %q", errs[0].Phase)
	}
}

func TestValidateFile_Missing(t *testing.T) {
	_, errs := ValidateFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if len(errs) == 0 {
		t.Fatal("expected error for missing file")
	}
}
