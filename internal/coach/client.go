package coach

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/pacelog/pacelog/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/option"
)

const (
	oneHour           = 60 * 60
	promptCacheExpire = oneHour * 6
)

// Client talks to the Gemini API and caches answers per prompt, so that
// repeated identical questions do not burn quota.
type Client struct {
	genaiClient *genai.Client
	model       *genai.GenerativeModel
	cache       *freecache.Cache
}

func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("new genai client: %w", err)
	}

	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte

	return &Client{
		genaiClient: genaiClient,
		model:       genaiClient.GenerativeModel(modelName),
		cache:       freecache.NewCache(cacheSize),
	}, nil
}

func (c *Client) Close() error {
	return c.genaiClient.Close()
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coach.generateText")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := promptCacheKey(prompt)
	if cached, err := c.cache.Get(cacheKey); err == nil {
		log.Tracef("found coach answer in cache")
		span.SetStatus(codes.Ok, "cache-hit")
		return string(cached), nil
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("empty model response")
	}

	if err := c.cache.Set(cacheKey, []byte(text), promptCacheExpire); err != nil {
		log.Errorf("failed to write coach answer cache: %s", err)
	}

	return text, nil
}

func promptCacheKey(prompt string) []byte {
	sum := sha256.Sum256([]byte(prompt))
	return sum[:]
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		// first candidate is enough
		break
	}
	return strings.TrimSpace(sb.String())
}
