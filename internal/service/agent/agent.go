package agent

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	// ErrUnavailable wraps every transport, auth or service failure.
	ErrUnavailable = errors.New("agent unavailable")
	// ErrEmptyPrompt rejects a request with neither text nor attachment.
	ErrEmptyPrompt = errors.New("prompt text is required without an attachment")
)

// Gateway forwards one user turn to the conversational agent and returns the
// complete reply. Implementations keep per-session memory until Forget.
type Gateway interface {
	Invoke(ctx context.Context, sessionID, text string, file *Attachment) (string, error)
	Forget(sessionID string)
}

var (
	_ Gateway = (*EinoGateway)(nil)
	_ Gateway = (*GeminiGateway)(nil)
	_ Gateway = (*MockGateway)(nil)
)

// DefaultAttachmentPrompt replaces empty text when only a file is sent.
const DefaultAttachmentPrompt = "Please analyze the attached file."

// Attachment is an opaque file forwarded to the agent unmodified.
type Attachment struct {
	Name string
	Data []byte
}

// MIMEType guesses the attachment's content type from its name, falling back
// to sniffing the bytes.
func (a *Attachment) MIMEType() string {
	if ext := filepath.Ext(a.Name); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	return http.DetectContentType(a.Data)
}

// IsImage reports whether the attachment should be sent as an image part.
func (a *Attachment) IsImage() bool {
	return strings.HasPrefix(a.MIMEType(), "image/")
}

// ResolvePrompt applies the empty-text rules shared by every gateway: blank
// text with a file becomes DefaultAttachmentPrompt, blank text without one is
// ErrEmptyPrompt.
func ResolvePrompt(text string, file *Attachment) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	if file == nil {
		return "", ErrEmptyPrompt
	}
	return DefaultAttachmentPrompt, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
