package agent

import (
	"context"
	"fmt"
	"iter"
	"log"
	"strings"

	"google.golang.org/genai"
)

// GeminiGateway talks to Gemini through the genai SDK, on either the Gemini
// API or Vertex AI.
type GeminiGateway struct {
	client    *genai.Client
	modelName string
	history   *history
}

// GeminiConfig selects the backend: APIKey for the Gemini API, otherwise
// Project and Location for Vertex AI.
type GeminiConfig struct {
	APIKey       string
	Project      string
	Location     string
	Model        string
	HistoryLimit int
}

// NewGeminiGateway creates a genai client for cfg.
func NewGeminiGateway(ctx context.Context, cfg GeminiConfig) (*GeminiGateway, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.APIKey == "" {
		if cfg.Project == "" || cfg.Location == "" {
			return nil, fmt.Errorf("gemini requires an API key or a project and location")
		}
		clientCfg = &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &GeminiGateway{
		client:    client,
		modelName: modelName,
		history:   newHistory(cfg.HistoryLimit),
	}, nil
}

// Invoke sends text (and file, if any) and returns the complete reply.
func (g *GeminiGateway) Invoke(ctx context.Context, sessionID, text string, file *Attachment) (string, error) {
	text, err := ResolvePrompt(text, file)
	if err != nil {
		return "", err
	}

	contents := buildGeminiContents(g.history.recent(sessionID), text, file)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
	}

	reply, chunks, err := collectText(g.client.Models.GenerateContentStream(ctx, g.modelName, contents, cfg))
	if err != nil {
		return "", unavailable("gemini generate content", err)
	}

	g.history.record(sessionID, text, reply)
	log.Printf("[agent] gemini reply for session=%s, chunks=%d, length=%d", sessionID, chunks, len(reply))
	return reply, nil
}

// Forget drops the remembered turns of a session.
func (g *GeminiGateway) Forget(sessionID string) {
	g.history.forget(sessionID)
}

// collectText drains seq in delivery order into one string.
func collectText(seq iter.Seq2[*genai.GenerateContentResponse, error]) (string, int, error) {
	var (
		b      strings.Builder
		chunks int
	)
	for resp, err := range seq {
		if err != nil {
			return "", chunks, err
		}
		if resp == nil {
			continue
		}
		chunks++
		b.WriteString(resp.Text())
	}
	if b.Len() == 0 {
		return "", chunks, fmt.Errorf("empty reply")
	}
	return b.String(), chunks, nil
}

func buildGeminiContents(turns []Turn, text string, file *Attachment) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns)+1)
	for _, t := range turns {
		var role genai.Role = genai.RoleModel
		if t.FromUser {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}

	parts := []*genai.Part{genai.NewPartFromText(text)}
	if file != nil {
		parts = append(parts, genai.NewPartFromBytes(file.Data, file.MIMEType()))
	}
	return append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
}
