package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
)

var (
	CurrentVersion = "v0.1.0" // Will be overwritten by ldflags during build
	GitHubAPI      = "https://api.github.com/repos/gauchoracing/aamctl/releases/latest"
	CheckInterval  = 24 * time.Hour
)

type GitHubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type VersionCheck struct {
	LastChecked   time.Time `json:"last_checked"`
	LatestVersion string    `json:"latest_version"`
}

func versionCachePath() string {
	return filepath.Join(filepath.Dir(DefaultStorePath()), "version_check.json")
}

// CheckForUpdates checks for a newer release in the background, at most once
// per CheckInterval.
func CheckForUpdates() {
	if !shouldCheck(versionCachePath()) {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		latest, url, err := FetchLatestVersion(ctx)
		if err != nil {
			log.Debug("Update check failed", "error", err)
			return
		}
		if IsNewer(latest, CurrentVersion) {
			fmt.Fprintf(os.Stderr, "\n💡 Update available: %s → %s\n", CurrentVersion, latest)
			fmt.Fprintf(os.Stderr, "   Download: %s\n\n", url)
		}
		saveLastCheck(versionCachePath(), latest)
	}()
}

func shouldCheck(cachePath string) bool {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return true
	}
	var check VersionCheck
	if err := json.Unmarshal(data, &check); err != nil {
		return true
	}
	return time.Since(check.LastChecked) > CheckInterval
}

// FetchLatestVersion returns the tag and page URL of the latest release.
func FetchLatestVersion(ctx context.Context) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, GitHubAPI, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	var release GitHubRelease
	if err := json.Unmarshal(body, &release); err != nil {
		return "", "", err
	}
	return release.TagName, release.HTMLURL, nil
}

// IsNewer reports whether latest is a higher semantic version than current.
// Unparseable versions never count as newer.
func IsNewer(latest, current string) bool {
	l, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}
	c, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	return l.GreaterThan(c)
}

func saveLastCheck(cachePath, version string) {
	check := VersionCheck{
		LastChecked:   time.Now(),
		LatestVersion: version,
	}
	data, _ := json.Marshal(check)
	_ = os.MkdirAll(filepath.Dir(cachePath), 0700)
	_ = os.WriteFile(cachePath, data, 0600)
}
