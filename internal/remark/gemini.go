package remark

import (
	"context"
	"errors"
	"fmt"

	"github.com/stemsi/rosterdocs/internal/model"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-3-flash-preview"

// ErrMissingAPIKey is returned by NewGeminiModel without an API key.
var ErrMissingAPIKey = errors.New("gemini API key is required")

// GeminiModel generates remarks through the Gemini API.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel creates a Gemini-backed Model.
func NewGeminiModel(ctx context.Context, apiKey, modelName string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiModel{client: client, model: modelName}, nil
}

// Remark implements Model.
func (m *GeminiModel) Remark(ctx context.Context, level model.Level, performance string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(Prompt(level, performance)), nil)
	if err != nil {
		return "", fmt.Errorf("generate remark: %w", err)
	}
	return resp.Text(), nil
}

// Prompt is the instruction sent for one student.
func Prompt(level model.Level, performance string) string {
	return fmt.Sprintf(
		"كأستاذ تربية بدنية، اكتب ملاحظة تربوية قصيرة جداً (أقل من 10 كلمات) لتلميذ في السنة %s ابتدائي، مستواه: %s. الملاحظة يجب أن تكون باللغة العربية ومشجعة.",
		level, performance,
	)
}
