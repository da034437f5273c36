package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/formsense/formsense/pkg/coach"
)

// DefaultModel is the content-generation model used for plan requests.
const DefaultModel = "gemini-2.0-flash"

// ContentGenerator produces a text completion for a prompt. Satisfied by the
// genai-backed client; tests inject a fake.
type ContentGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// Generator turns a plan request into a validated WorkoutPlan.
type Generator struct {
	gen   ContentGenerator
	model string
}

// NewGenerator creates a plan generator over the given content backend.
func NewGenerator(gen ContentGenerator, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{gen: gen, model: model}
}

// Generate requests a plan and validates the JSON response against the fixed
// schema. A malformed or empty payload is a validation error, surfaced to the
// user as a retry prompt.
func (g *Generator) Generate(ctx context.Context, req Request) (*WorkoutPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	raw, err := g.gen.GenerateText(ctx, g.model, buildPrompt(req))
	if err != nil {
		return nil, err
	}

	raw = stripCodeFences(raw)
	if strings.TrimSpace(raw) == "" {
		return nil, coach.NewValidationError("plan generation returned an empty response")
	}

	var plan WorkoutPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, coach.NewValidationError("plan generation returned non-JSON output")
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

func buildPrompt(req Request) string {
	return fmt.Sprintf(
		"Create a %d-minute workout plan for a %s user whose goal is: %s. "+
			"Respond with JSON only, using this exact shape: "+
			`{"title":string,"duration":string,"difficulty":string,`+
			`"exercises":[{"name":string,"durationOrReps":string,"description":string,"tips":string}]}`,
		req.DurationMinutes, req.Experience, strings.TrimSpace(req.Goal),
	)
}

// stripCodeFences removes a surrounding markdown code block if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// GenAIClient adapts the genai SDK to the ContentGenerator interface.
type GenAIClient struct {
	client *genai.Client
}

// NewGenAIClient creates a generation backend using the Gemini API key.
func NewGenAIClient(ctx context.Context, apiKey string) (*GenAIClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, coach.NewConnectionError("create generation client", err)
	}
	return &GenAIClient{client: client}, nil
}

// GenerateText runs one request/response generation call.
func (c *GenAIClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", coach.NewConnectionError("plan generation request failed", err)
	}
	return resp.Text(), nil
}
