package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gdugdh24/dating-onboarding/internal/config"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	name := cfg.Model
	if name == "" {
		name = defaultModel
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(0.8)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

// BioFacts is what the model gets to write about.
type BioFacts struct {
	FirstName string
	Interests []string
	Hometown  string
	Work      string
}

func bioPrompt(f BioFacts) string {
	var b strings.Builder
	b.WriteString("Write 3 short, warm dating-profile bios (max 300 characters each) in the first person.\n")
	fmt.Fprintf(&b, "Name: %s\n", f.FirstName)
	if len(f.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s\n", strings.Join(f.Interests, ", "))
	}
	if f.Hometown != "" {
		fmt.Fprintf(&b, "Hometown: %s\n", f.Hometown)
	}
	if f.Work != "" {
		fmt.Fprintf(&b, "Work: %s\n", f.Work)
	}
	b.WriteString(`Output: JSON array of strings. Example: ["Bio one", "Bio two", "Bio three"]`)
	return b.String()
}

// GenerateBio asks the model for bio suggestions.
func (c *GeminiClient) GenerateBio(ctx context.Context, facts BioFacts) ([]string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(bioPrompt(facts)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate bio: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return parseSuggestions(sb.String())
}

// parseSuggestions reads a JSON array of strings, tolerating a markdown code
// fence around it. Anything else is split into non-empty lines.
func parseSuggestions(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var out []string
	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return nonEmpty(out), nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" && line != "[" && line != "]" {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("failed to parse bio suggestions")
	}
	return out, nil
}

func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
