package cli

import (
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"github.com/matzehuels/pipsearch/pkg/integrations"
)

// pipListTimeout bounds the pip invocation.
const pipListTimeout = 10 * time.Second

// installedFunc returns the locally installed distributions keyed by
// normalized name.
type installedFunc func(ctx context.Context) (map[string]string, error)

type pipEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// pipList asks the local pip for its installed distributions.
func pipList(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, pipListTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "python3", "-m", "pip", "list",
		"--format=json", "--disable-pip-version-check").Output()
	if err != nil {
		return nil, err
	}
	return parsePipList(out)
}

func parsePipList(data []byte) (map[string]string, error) {
	var entries []pipEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	versions := make(map[string]string, len(entries))
	for _, e := range entries {
		versions[integrations.NormalizePkgName(e.Name)] = e.Version
	}
	return versions, nil
}

// installedMarker compares an index version with the installed one.
// It returns "==" when they match, "> <installed>" when they differ and ""
// when the package is not installed.
func installedMarker(installed map[string]string, name, version string) string {
	have, ok := installed[integrations.NormalizePkgName(name)]
	if !ok {
		return ""
	}
	if have == version {
		return "=="
	}
	return "> " + have
}

// installedVersions runs the lister, logging and swallowing any failure.
func (c *CLI) installedVersions(ctx context.Context) map[string]string {
	versions, err := c.installed(ctx)
	if err != nil {
		c.Logger.Debug("installed version check disabled", "err", err)
		return nil
	}
	return versions
}
