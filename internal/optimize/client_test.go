package optimize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HartBrook/sharpen/internal/errors"
)

func TestNewClient_WithOptions(t *testing.T) {
	customClient := &http.Client{}
	client := NewClient("key", "https://custom.api.com/v1/", "gpt-4o", WithClientHTTP(customClient))

	assert.Equal(t, "key", client.apiKey)
	assert.Equal(t, "https://custom.api.com/v1", client.baseURL)
	assert.Equal(t, "gpt-4o", client.model)
	assert.Equal(t, customClient, client.httpClient)
}

func TestClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.Equal(t, 0.4, req.Temperature)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, Message{Role: "system", Content: "be precise"}, req.Messages[0])
		assert.Equal(t, Message{Role: "user", Content: "hello"}, req.Messages[1])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  better prompt \n"}}]}`))
	}))
	defer server.Close()

	client := NewClient("sk-test", server.URL+"/v1", "llama3")
	out, err := client.Complete(context.Background(), "be precise", "hello", 0.4)

	require.NoError(t, err)
	assert.Equal(t, "better prompt", out)
}

func TestClient_Complete_AbsentContent(t *testing.T) {
	for name, body := range map[string]string{
		"no choices":    `{"choices":[]}`,
		"no message":    `{"choices":[{}]}`,
		"no content":    `{"choices":[{"message":{"role":"assistant"}}]}`,
		"empty object":  `{}`,
		"null content":  `{"choices":[{"message":{"content":null}}]}`,
		"blank content": `{"choices":[{"message":{"content":"   "}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			out, err := NewClient("k", server.URL, "m").Complete(context.Background(), "s", "u", 0.7)
			require.NoError(t, err)
			assert.Equal(t, "", out)
		})
	}
}

func TestClient_Complete_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	_, err := NewClient("bad", server.URL, "gpt-4o").Complete(context.Background(), "s", "u", 0.7)

	require.Error(t, err)
	assert.Equal(t, errors.ErrTransport, errors.KindOf(err))
	assert.Contains(t, err.Error(), "optimization failed")
	assert.Contains(t, err.Error(), "401 Unauthorized")
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestClient_Complete_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	_, err := NewClient("k", server.URL, "m").Complete(context.Background(), "s", "u", 0.7)

	require.Error(t, err)
	assert.Equal(t, errors.ErrUnknown, errors.KindOf(err))
	assert.Contains(t, err.Error(), "optimization failed")
}

func TestClient_Complete_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient("k", url, "m").Complete(context.Background(), "s", "u", 0.7)

	require.Error(t, err)
	assert.Equal(t, errors.ErrTransport, errors.KindOf(err))
	assert.Contains(t, err.Error(), "optimization failed")
}
