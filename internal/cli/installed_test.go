package cli

import (
	"context"
	"errors"
	"testing"
)

func TestParsePipList(t *testing.T) {
	data := []byte(`[
		{"name": "requests", "version": "2.31.0"},
		{"name": "Flask_SQLAlchemy", "version": "3.1.1"},
		{"name": "zope.interface", "version": "6.1"}
	]`)

	got, err := parsePipList(data)
	if err != nil {
		t.Fatalf("parsePipList() error: %v", err)
	}

	want := map[string]string{
		"requests":         "2.31.0",
		"flask-sqlalchemy": "3.1.1",
		"zope-interface":   "6.1",
	}
	if len(got) != len(want) {
		t.Fatalf("parsePipList() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("parsePipList()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestParsePipListInvalid(t *testing.T) {
	if _, err := parsePipList([]byte("WARNING: pip is being invoked by an old script wrapper")); err == nil {
		t.Error("parsePipList() should reject non-JSON output")
	}
}

func TestInstalledMarker(t *testing.T) {
	installed := map[string]string{"flask-sqlalchemy": "3.0.0", "requests": "2.31.0"}

	tests := []struct {
		name, pkg, version, want string
	}{
		{"same version", "requests", "2.31.0", "=="},
		{"index is newer", "Flask_SQLAlchemy", "3.1.1", "> 3.0.0"},
		{"not installed", "httpx", "0.27.0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := installedMarker(installed, tt.pkg, tt.version); got != tt.want {
				t.Errorf("installedMarker(%q, %q) = %q, want %q", tt.pkg, tt.version, got, tt.want)
			}
		})
	}
}

func TestInstalledMarkerNilMap(t *testing.T) {
	if got := installedMarker(nil, "requests", "2.31.0"); got != "" {
		t.Errorf("installedMarker(nil) = %q, want empty", got)
	}
}

func TestInstalledVersionsSwallowsErrors(t *testing.T) {
	c := newTestCLI(t, nil)
	c.installed = func(context.Context) (map[string]string, error) {
		return nil, errors.New("exec: \"python3\": executable file not found in $PATH")
	}

	if got := c.installedVersions(context.Background()); got != nil {
		t.Errorf("installedVersions() = %v, want nil", got)
	}
	if c.errOut.Len() != 0 {
		t.Errorf("failure should only be logged at debug level, got %q", c.errOut.String())
	}
}
