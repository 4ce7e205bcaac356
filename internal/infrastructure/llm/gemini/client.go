package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
	"github.com/kirillkom/chat-gateway/internal/infrastructure/resilience"
)

const describePrompt = "Describe this image in detail. Mention any visible text, objects and context that would help answer questions about it."

type Config struct {
	APIKey      string
	Model       string
	VisionModel string
	Temperature float64
	TopP        float64
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client talks to the Gemini API for text completion and image description.
// Calls run under the shared resilience executor.
type Client struct {
	api         *genai.Client
	model       contentGenerator
	visionModel contentGenerator
	executor    *resilience.Executor
}

func New(ctx context.Context, cfg Config, executor *resilience.Executor) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}

	api, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	model := api.GenerativeModel(cfg.Model)
	model.SetTemperature(float32(cfg.Temperature))
	model.SetTopP(float32(cfg.TopP))

	visionName := cfg.VisionModel
	if visionName == "" {
		visionName = cfg.Model
	}
	visionModel := api.GenerativeModel(visionName)
	visionModel.SetTemperature(float32(cfg.Temperature))
	visionModel.SetTopP(float32(cfg.TopP))

	return &Client{
		api:         api,
		model:       model,
		visionModel: visionModel,
		executor:    executor,
	}, nil
}

// Generate sends the assembled prompt segments as a single multi-part request
// and returns the model's text answer.
func (c *Client) Generate(ctx context.Context, segments []domain.Segment) (string, error) {
	if len(segments) == 0 {
		return "", fmt.Errorf("gemini generate: no prompt segments")
	}

	parts := toParts(segments)
	answer, err := c.generateText(ctx, "generate", c.model, parts)
	if err != nil {
		return "", wrapTemporaryIfNeeded("gemini.generate", err)
	}
	return answer, nil
}

// Describe asks the vision model for a textual description of an inline image.
func (c *Client) Describe(ctx context.Context, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("gemini describe: empty image payload")
	}

	parts := []genai.Part{
		genai.Text(describePrompt),
		genai.Blob{MIMEType: mimeType, Data: data},
	}
	answer, err := c.generateText(ctx, "describe", c.visionModel, parts)
	if err != nil {
		return "", wrapTemporaryIfNeeded("gemini.describe", err)
	}
	return answer, nil
}

func (c *Client) Close() error {
	if c.api == nil {
		return nil
	}
	return c.api.Close()
}

func (c *Client) generateText(ctx context.Context, operation string, model contentGenerator, parts []genai.Part) (string, error) {
	var answer string
	err := c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		resp, err := model.GenerateContent(ctx, parts...)
		if err != nil {
			return err
		}
		answer = collectText(resp)
		if answer == "" {
			return domain.WrapError(domain.ErrTemporary, operation, fmt.Errorf("empty model response"))
		}
		return nil
	}, classifyGeminiError)
	if err != nil {
		return "", err
	}
	return answer, nil
}

func toParts(segments []domain.Segment) []genai.Part {
	parts := make([]genai.Part, 0, len(segments))
	for _, segment := range segments {
		if segment.IsBlob() {
			parts = append(parts, genai.Blob{MIMEType: segment.MIMEType, Data: segment.Data})
			continue
		}
		parts = append(parts, genai.Text(segment.Text))
	}
	return parts
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var out strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(out.String())
}
