package github

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/cli/go-gh/v2/pkg/api"

	"github.com/HartBrook/sharpen/internal/errors"
)

// Client wraps the GitHub REST API.
type Client struct {
	rest *api.RESTClient
}

// NewClient creates a client authenticated with GetToken.
func NewClient() (*Client, error) {
	token, err := GetToken()
	if err != nil {
		return nil, err
	}
	return NewClientWithOptions(api.ClientOptions{AuthToken: token})
}

// NewClientWithOptions creates a client from explicit go-gh options.
func NewClientWithOptions(opts api.ClientOptions) (*Client, error) {
	client, err := api.NewRESTClient(opts)
	if err != nil {
		return nil, err
	}
	return &Client{rest: client}, nil
}

// GistFile is one file in a gist.
type GistFile struct {
	Content string `json:"content"`
}

// Gist is the create-gist request body.
type Gist struct {
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]GistFile `json:"files"`
}

// GistResult is the subset of the create-gist response sharpen uses.
type GistResult struct {
	ID      string `json:"id"`
	HTMLURL string `json:"html_url"`
}

// CreateGist creates a gist and returns its id and URL.
func (c *Client) CreateGist(ctx context.Context, gist Gist) (*GistResult, error) {
	if len(gist.Files) == 0 {
		return nil, errors.Invalid("gist has no files")
	}

	body, err := json.Marshal(gist)
	if err != nil {
		return nil, err
	}

	var result GistResult
	if err := c.rest.DoWithContext(ctx, http.MethodPost, "gists", bytes.NewReader(body), &result); err != nil {
		var httpErr *api.HTTPError
		if stderrors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden) {
			return nil, errors.GitHubAuthFailed(err)
		}
		return nil, err
	}
	return &result, nil
}
