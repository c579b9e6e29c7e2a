package challenge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/pipsearch/pkg/errors"
	"github.com/matzehuels/pipsearch/pkg/observability"
)

// maxScriptSize bounds how much of the challenge script is read.
const maxScriptSize = 1 << 20

// Gate passes the proof-of-work challenge using an HTTP client whose cookie
// jar keeps the clearance cookie for later requests.
type Gate struct {
	http   *http.Client
	logger *log.Logger
}

// NewGate creates a Gate. A nil logger uses log.Default().
func NewGate(client *http.Client, logger *log.Logger) *Gate {
	if logger == nil {
		logger = log.Default()
	}
	return &Gate{http: client, logger: logger}
}

// submission is the post-back body.
type submission struct {
	Token string   `json:"token"`
	Data  []answer `json:"data"`
}

type answer struct {
	Type    string `json:"ty"`
	Base    string `json:"base"`
	Answer  string `json:"answer"`
	HMAC    string `json:"hmac"`
	Expires string `json:"expires"`
}

// Pass solves the challenge announced by landing, a page served by origin
// (scheme://host). It returns an error tagged with the challenge stage when
// the script cannot be fetched or parsed, no answer exists, or the
// post-back is rejected.
func (g *Gate) Pass(ctx context.Context, origin, landing string) error {
	start := time.Now()
	origin = strings.TrimSuffix(origin, "/")

	path, ok := Detect(landing)
	if !ok {
		return perrors.AtStage(perrors.StageChallenge, perrors.ErrCodeChallenge, ErrMalformed, "challenge script not found")
	}

	script, err := g.fetchScript(ctx, fmt.Sprintf("%s/%s/script.js", origin, path))
	if err != nil {
		return perrors.AtStage(perrors.StageChallenge, perrors.ErrCodeTransport, err, "fetch challenge script")
	}

	c, err := Parse(script)
	if err != nil {
		return perrors.AtStage(perrors.StageChallenge, perrors.ErrCodeChallenge, err, "parse challenge")
	}

	ans, attempts, err := Solve(c.Base, c.Hash)
	if err != nil {
		return perrors.AtStage(perrors.StageChallenge, perrors.ErrCodeChallenge, err, "solve challenge")
	}
	g.logger.Debug("challenge solved", "answer", ans, "attempts", attempts)

	if err := g.submit(ctx, fmt.Sprintf("%s/%s/fst-post-back", origin, path), c, ans); err != nil {
		return perrors.AtStage(perrors.StageChallenge, perrors.ErrCodeTransport, err, "submit answer")
	}

	observability.Search().OnChallengePassed(ctx, attempts, time.Since(start))
	return nil
}

func (g *Gate) fetchScript(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &perrors.StatusError{StatusCode: resp.StatusCode, URL: url}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptSize))
	return string(data), err
}

func (g *Gate) submit(ctx context.Context, url string, c *Challenge, ans string) error {
	body, err := json.Marshal(submission{
		Token: c.Token,
		Data: []answer{{
			Type:    "pow",
			Base:    c.Base,
			Answer:  ans,
			HMAC:    c.HMAC,
			Expires: c.Expires,
		}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &perrors.StatusError{Method: http.MethodPost, StatusCode: resp.StatusCode, URL: url}
	}
	return nil
}
