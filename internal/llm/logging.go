package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lennai/lennai/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging. provider names the
// backend ("gemini", "openai", ...) in recorded events.
func WithLogging(p Provider, provider string, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: provider, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.record(ctx, data)
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) record(ctx context.Context, data store.LLMRequestEventData) {
	if l.eventRepo == nil {
		return
	}
	// Recording is best effort; the request outcome stands regardless.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		slog.Warn("failed to log LLM request event", "purpose", data.Purpose, "error", logErr)
	}
}

// LoggingImageGenerator records every image request as an event.
type LoggingImageGenerator struct {
	inner     ImageGenerator
	provider  string
	eventRepo store.EventRepo
}

// WithImageLogging wraps an ImageGenerator with event logging.
func WithImageLogging(g ImageGenerator, provider string, repo store.EventRepo) ImageGenerator {
	return &LoggingImageGenerator{inner: g, provider: provider, eventRepo: repo}
}

func (l *LoggingImageGenerator) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	start := time.Now()
	img, err := l.inner.GenerateImage(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: fmt.Sprintf("[image %s]\n%s", req.AspectRatio, req.Prompt),
	}
	if img != nil {
		data.ResponseBody = fmt.Sprintf("[%s, %d bytes]", img.MIMEType, len(img.Data))
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
			slog.Warn("failed to log image request event", "purpose", data.Purpose, "error", logErr)
		}
	}
	return img, err
}

func (l *LoggingImageGenerator) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
// Attachment bytes are summarized, never inlined.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n")
		for _, a := range m.Attachments {
			fmt.Fprintf(&b, "[attachment: %s %s, %d bytes]\n", a.Name, a.MIMEType, len(a.Data))
		}
		b.WriteString("\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}
