package agent

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// EinoGateway talks to any eino chat model through a prompt chain and
// reassembles the streamed reply.
type EinoGateway struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	history *history
}

// NewEinoGateway compiles the conversation chain around chatModel.
func NewEinoGateway(ctx context.Context, chatModel model.BaseChatModel, historyLimit int) (*EinoGateway, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.MessagesPlaceholder("input", false),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile agent chain: %w", err)
	}

	return &EinoGateway{
		chain:   runnable,
		history: newHistory(historyLimit),
	}, nil
}

// Invoke sends text (and file, if any) and returns the complete reply.
func (g *EinoGateway) Invoke(ctx context.Context, sessionID, text string, file *Attachment) (string, error) {
	text, err := ResolvePrompt(text, file)
	if err != nil {
		return "", err
	}

	input := map[string]any{
		"system":  SystemPrompt,
		"history": buildHistoryMessages(g.history.recent(sessionID)),
		"input":   []*schema.Message{buildInputMessage(text, file)},
	}

	stream, err := g.chain.Stream(ctx, input)
	if err != nil {
		return "", unavailable("stream agent chain", err)
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", unavailable("receive chunk", recvErr)
		}
		if chunk == nil {
			continue
		}
		chunks = append(chunks, chunk)
	}

	if len(chunks) == 0 {
		return "", unavailable("receive chunk", errors.New("empty reply"))
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", unavailable("concat chunks", err)
	}

	g.history.record(sessionID, text, response.Content)
	log.Printf("[agent] reply for session=%s, chunks=%d, length=%d", sessionID, len(chunks), len(response.Content))
	return response.Content, nil
}

// Forget drops the remembered turns of a session.
func (g *EinoGateway) Forget(sessionID string) {
	g.history.forget(sessionID)
}

func buildHistoryMessages(turns []Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	out := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		if t.FromUser {
			out = append(out, schema.UserMessage(t.Text))
		} else {
			out = append(out, schema.AssistantMessage(t.Text, nil))
		}
	}
	return out
}

func buildInputMessage(text string, file *Attachment) *schema.Message {
	if file == nil {
		return schema.UserMessage(text)
	}

	mimeType := file.MIMEType()
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(file.Data))

	filePart := schema.ChatMessagePart{
		Type: schema.ChatMessagePartTypeFileURL,
		FileURL: &schema.ChatMessageFileURL{
			URL:      dataURL,
			MIMEType: mimeType,
			Name:     file.Name,
		},
	}
	if file.IsImage() {
		filePart = schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{
				URL:      dataURL,
				MIMEType: mimeType,
			},
		}
	}

	return &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{Type: schema.ChatMessagePartTypeText, Text: text},
			filePart,
		},
	}
}
