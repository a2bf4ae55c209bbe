// File: internal/infra/updater/updater.go
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Checker polls the GitHub releases of a fixed source repository and logs
// when a newer version is available. Purely operational: it never mutates
// anything and never blocks startup.
type Checker struct {
	repo     string // owner/name
	current  string
	interval time.Duration
	client   *http.Client
	baseURL  string
	log      *zerolog.Logger
}

func NewChecker(repo, currentVersion string, interval time.Duration, logger *zerolog.Logger) *Checker {
	l := logger.With().Str("component", "UpdateChecker").Logger()
	return &Checker{
		repo:     repo,
		current:  currentVersion,
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  "https://api.github.com",
		log:      &l,
	}
}

func (c *Checker) Run(ctx context.Context) error {
	c.log.Info().Str("repo", c.repo).Dur("interval", c.interval).Msg("Starting update checker")
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.checkOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.checkOnce(ctx)
		}
	}
}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

func (c *Checker) checkOnce(ctx context.Context) {
	latest, err := c.latestRelease(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("release check failed")
		return
	}
	latestVer := strings.TrimPrefix(latest.TagName, "v")
	currentVer := strings.TrimPrefix(c.current, "v")
	if latestVer != "" && latestVer != currentVer {
		c.log.Info().
			Str("current", currentVer).
			Str("latest", latestVer).
			Str("url", latest.HTMLURL).
			Msg("a newer release is available")
	}
}

func (c *Checker) latestRelease(ctx context.Context) (*release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github responded %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, err
	}
	return &rel, nil
}
