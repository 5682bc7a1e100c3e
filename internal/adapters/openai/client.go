// Package openai backs the text generation and image assessment ports with
// the OpenAI API.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"whohub/internal/ports"
)

type Client struct {
	api   *openai.Client
	model string
	blobs ports.BlobStore
}

// New builds a client. blobs may be nil when every image reference handed to
// Assess is already a fetchable URL.
func New(apiKey, model string, blobs ports.BlobStore) *Client {
	return &Client{api: openai.NewClient(apiKey), model: model, blobs: blobs}
}

// Generate implements ports.TextGenerator.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type assessment struct {
	AIGenerated         bool    `json:"ai_generated"`
	Confidence          float64 `json:"confidence"`
	DeepfakeProbability float64 `json:"deepfake_probability"`
}

const assessPrompt = `Assess whether this photo is AI-generated or a deepfake.
Respond with only a JSON object: {"ai_generated": bool, "confidence": 0..1, "deepfake_probability": 0..1}`

// resolveImage turns an image reference into something the vision API can
// read. Submitted images are stored under blob keys, not public URLs, so
// those are inlined as base64 data URLs; absolute URLs pass through.
func (c *Client) resolveImage(ctx context.Context, ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:") {
		return ref, nil
	}
	if c.blobs == nil {
		return "", fmt.Errorf("resolve image %s: no blob store configured", ref)
	}
	data, contentType, err := c.blobs.Get(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolve image %s: %w", ref, err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Assess implements ports.ImageAssessor with a vision prompt. Callers treat
// errors as "no assessment", so a malformed model reply is surfaced rather
// than guessed at.
func (c *Client) Assess(ctx context.Context, imageURL string) (ports.ImageAssessment, error) {
	resolved, err := c.resolveImage(ctx, imageURL)
	if err != nil {
		return ports.ImageAssessment{}, err
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 200,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: assessPrompt},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: resolved}},
				},
			},
		},
	})
	if err != nil {
		return ports.ImageAssessment{}, fmt.Errorf("image assessment: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ports.ImageAssessment{}, fmt.Errorf("image assessment: empty response")
	}
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.Trim(raw, "` \n")
	var a assessment
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return ports.ImageAssessment{}, fmt.Errorf("image assessment: parse %q: %w", raw, err)
	}
	return ports.ImageAssessment{
		AIGenerated:         a.AIGenerated,
		Confidence:          a.Confidence,
		DeepfakeProbability: a.DeepfakeProbability,
	}, nil
}
