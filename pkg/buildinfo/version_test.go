package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplateIncludesVersion(t *testing.T) {
	old := Version
	Version = "v0.3.1"
	defer func() { Version = old }()

	if got := Template(); !strings.Contains(got, "v0.3.1") {
		t.Errorf("Template() = %q, want it to contain the version", got)
	}
	if got := String(); !strings.HasPrefix(got, "version: v0.3.1\n") {
		t.Errorf("String() = %q", got)
	}
}
