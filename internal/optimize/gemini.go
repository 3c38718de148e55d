package optimize

import (
	"context"
	"net/http"

	"google.golang.org/genai"
)

// GenerateRequest is the input to a managed content-generation call.
type GenerateRequest struct {
	APIKey            string
	Model             string
	SystemInstruction string
	Content           string
	Temperature       float64
}

// Generator performs a managed content-generation call.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenAIGenerator calls the Gemini API through the genai SDK.
type GenAIGenerator struct {
	baseURL    string
	httpClient *http.Client
}

// NewGenAIGenerator returns a generator. An empty baseURL uses the SDK
// default endpoint.
func NewGenAIGenerator(baseURL string, httpClient *http.Client) *GenAIGenerator {
	return &GenAIGenerator{baseURL: baseURL, httpClient: httpClient}
}

// Generate builds a client for req.APIKey and runs one GenerateContent call.
func (g *GenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      req.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  g.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Content), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(float32(req.Temperature)),
	})
	if err != nil {
		return "", err
	}

	return resp.Text(), nil
}
