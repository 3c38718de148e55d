// Package github publishes sharpen data to GitHub gists.
package github

import (
	"os"
	"os/exec"
	"strings"

	"github.com/HartBrook/sharpen/internal/errors"
)

// EnvGitHubToken is the fallback token variable when gh is not logged in.
const EnvGitHubToken = "SHARPEN_GITHUB_TOKEN"

// tokenFromGH is replaced in tests.
var tokenFromGH = func() (string, error) {
	out, err := exec.Command("gh", "auth", "token").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetToken resolves a token from `gh auth token`, then SHARPEN_GITHUB_TOKEN.
func GetToken() (string, error) {
	token, err := tokenFromGH()
	if err == nil && token != "" {
		return token, nil
	}

	if token := os.Getenv(EnvGitHubToken); token != "" {
		return token, nil
	}

	return "", errors.GitHubAuthFailed(err)
}

// AuthMethod describes where GetToken would find a token.
func AuthMethod() string {
	if token, err := tokenFromGH(); err == nil && token != "" {
		return "gh CLI"
	}
	if os.Getenv(EnvGitHubToken) != "" {
		return EnvGitHubToken
	}
	return "none"
}
