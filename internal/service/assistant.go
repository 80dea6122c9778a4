package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/abdullah-khaled0/voice-secretary/internal/domain"
	"github.com/abdullah-khaled0/voice-secretary/internal/github"
	"github.com/abdullah-khaled0/voice-secretary/internal/index"
	"github.com/abdullah-khaled0/voice-secretary/internal/profile"
	"github.com/abdullah-khaled0/voice-secretary/internal/telemetry"
)

const defaultTopK = 5

// LanguageModel invokes the downstream chat model with a rendered prompt.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ContextRetriever returns the top-k chunks for a query.
type ContextRetriever interface {
	Query(ctx context.Context, text string, k int) ([]index.Result, error)
}

// AssistantService is the response synthesizer: it gathers context, renders
// the prompt, invokes the model, and coerces the reply into the fixed schema.
type AssistantService struct {
	llm       LanguageModel
	retriever ContextRetriever
	profile   *profile.Profile
	topK      int
	debug     bool
}

func NewAssistantService(llm LanguageModel, retriever ContextRetriever, p *profile.Profile, topK int) *AssistantService {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &AssistantService{
		llm:       llm,
		retriever: retriever,
		profile:   p,
		topK:      topK,
	}
}

// SetDebug enables logging of raw model output.
func (s *AssistantService) SetDebug(debug bool) {
	s.debug = debug
}

// Respond synthesizes a structured response for the query. The returned repo
// name is auxiliary metadata: the first known project mentioned in the query,
// or "". Fails with a CONTEXT_ERROR before any model call when retrieval
// breaks, and with a DOWNSTREAM_ERROR when the model call itself fails.
// Malformed model output is coerced, never an error.
func (s *AssistantService) Respond(ctx context.Context, query string) (*domain.StructuredResponse, string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, "", domain.ErrEmptyQuery
	}

	ctx, span := telemetry.StartSpan(ctx, "AssistantService.Respond", telemetry.SpanAttributes{
		Operation: "respond",
	})
	defer span.End()

	repoName := s.profile.DetectRepo(query)

	results, err := s.retriever.Query(ctx, query, s.topK)
	if err != nil {
		span.SetError(err)
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, "", err
		}
		return nil, "", domain.NewDomainErrorWithCause(domain.ErrCodeContext, "failed to load document context", err)
	}

	prompt := renderPrompt(s.profile, results, query)

	raw, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		span.SetError(err)
		return nil, "", domain.NewDomainErrorWithCause(domain.ErrCodeDownstream, "language model call failed", err)
	}

	if s.debug {
		log.Printf("raw model output: %s", raw)
	}

	resp := domain.CoerceResponse(raw)
	s.rewriteMediaLinks(resp, repoName)

	return resp, repoName, nil
}

// rewriteMediaLinks converts relative media paths the model left unrewritten
// into raw-hosting URLs. Without a repository to anchor them, relative paths
// are left as-is.
func (s *AssistantService) rewriteMediaLinks(resp *domain.StructuredResponse, repoName string) {
	if repoName == "" {
		return
	}
	for i, link := range resp.MediaLinks {
		if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
			continue
		}
		resp.MediaLinks[i] = github.RawContentURL(s.profile.GitHubUsername, repoName, link)
	}
}
