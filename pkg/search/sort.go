package search

import (
	"cmp"
	"slices"
	"strings"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
)

// SortKey selects the field packages are ordered by.
type SortKey string

// Sort keys.
const (
	SortNone     SortKey = ""
	SortName     SortKey = "name"
	SortVersion  SortKey = "version"
	SortReleased SortKey = "released"
	SortStars    SortKey = "stars"
	SortWatchers SortKey = "watchers"
	SortForks    SortKey = "forks"
)

// SortKeys lists the valid keys in display order.
var SortKeys = []SortKey{SortName, SortVersion, SortReleased, SortStars, SortWatchers, SortForks}

// ParseSortKey validates a user-supplied sort key.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if key == SortNone || slices.Contains(SortKeys, key) {
		return key, nil
	}
	names := make([]string, len(SortKeys))
	for i, k := range SortKeys {
		names[i] = string(k)
	}
	return SortNone, perrors.New(perrors.ErrCodeInvalidSort,
		"invalid sort key %q (must be one of: %s)", s, strings.Join(names, ", "))
}

// Sort orders pkgs in place by key, ascending. Versions compare as raw
// strings. The sort is stable, so equal keys keep their search order.
// SortNone leaves pkgs untouched.
func Sort(pkgs []*Package, key SortKey) {
	var less func(a, b *Package) int
	switch key {
	case SortName:
		less = func(a, b *Package) int { return strings.Compare(a.Name, b.Name) }
	case SortVersion:
		less = func(a, b *Package) int { return strings.Compare(a.Version, b.Version) }
	case SortReleased:
		less = func(a, b *Package) int { return a.Released.Compare(b.Released) }
	case SortStars:
		less = func(a, b *Package) int { return cmp.Compare(a.Stars, b.Stars) }
	case SortWatchers:
		less = func(a, b *Package) int { return cmp.Compare(a.Watchers, b.Watchers) }
	case SortForks:
		less = func(a, b *Package) int { return cmp.Compare(a.Forks, b.Forks) }
	default:
		return
	}
	slices.SortStableFunc(pkgs, less)
}
