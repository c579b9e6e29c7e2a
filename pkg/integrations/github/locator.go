package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/pipsearch/pkg/integrations"
)

// DefaultHost is the repository host whose links are enriched.
const DefaultHost = "github.com"

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// reservedOwners are first path segments that are site sections, not accounts.
var reservedOwners = map[string]bool{
	"sponsors":    true,
	"orgs":        true,
	"topics":      true,
	"marketplace": true,
	"apps":        true,
	"features":    true,
}

// Locator identifies a repository on the repository host.
type Locator struct {
	Host  string
	Owner string
	Repo  string
}

// String returns "owner/repo".
func (l Locator) String() string {
	return l.Owner + "/" + l.Repo
}

// URL returns the canonical web URL of the repository.
func (l Locator) URL() string {
	host := l.Host
	if host == "" {
		host = DefaultHost
	}
	return fmt.Sprintf("https://%s/%s/%s", host, l.Owner, l.Repo)
}

// ParseLocator extracts a repository locator from a project homepage URL.
//
// Only URLs on the repository host are accepted. Trailing noise such as
// /tags, /releases, /issues, /tree/<branch>/..., a .git suffix, a query or
// a trailing slash is ignored, so "https://github.com/psf/requests/tree/main/docs"
// and "git+https://github.com/psf/requests.git" both yield psf/requests.
func ParseLocator(homepage string) (Locator, bool) {
	raw := integrations.NormalizeRepoURL(homepage)
	if raw == "" {
		return Locator{}, false
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Locator{}, false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != DefaultHost {
		return Locator{}, false
	}

	segs := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segs) < 2 {
		return Locator{}, false
	}
	owner, repo := segs[0], strings.TrimSuffix(segs[1], ".git")
	if reservedOwners[strings.ToLower(owner)] {
		return Locator{}, false
	}
	if ValidateRepoRef(owner, repo) != nil {
		return Locator{}, false
	}
	return Locator{Host: host, Owner: owner, Repo: repo}, true
}

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("owner is required")
	}
	if !validOwner.MatchString(owner) {
		return fmt.Errorf("invalid owner %q: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen", owner)
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return fmt.Errorf("repo is required")
	}
	if !validRepo.MatchString(repo) || repo == "." || repo == ".." {
		return fmt.Errorf("invalid repo %q: must be 1-100 alphanumeric characters, hyphens, underscores, or dots", repo)
	}
	return nil
}

// ValidateRepoRef validates both owner and repo parameters.
func ValidateRepoRef(owner, repo string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepo(repo)
}
