package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abdullah-khaled0/voice-secretary/internal/domain"
	"github.com/abdullah-khaled0/voice-secretary/internal/index"
	"github.com/abdullah-khaled0/voice-secretary/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Query(ctx context.Context, text string, k int) ([]index.Result, error) {
	args := m.Called(ctx, text, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]index.Result), args.Error(1)
}

func newAssistant(llm LanguageModel, retriever ContextRetriever) *AssistantService {
	return NewAssistantService(llm, retriever, profile.Default(), 5)
}

func TestRespond_EmptyQueryFailsWithoutDownstreamCalls(t *testing.T) {
	llm := new(MockLanguageModel)
	retriever := new(MockRetriever)
	svc := newAssistant(llm, retriever)

	for _, query := range []string{"", "   ", "\n\t"} {
		_, _, err := svc.Respond(context.Background(), query)
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	}

	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	retriever.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestRespond_RetrievalFailureStopsBeforeModelCall(t *testing.T) {
	llm := new(MockLanguageModel)
	retriever := new(MockRetriever)
	retriever.On("Query", mock.Anything, "what is vocaby", 5).
		Return(nil, errors.New("index corrupted"))

	svc := newAssistant(llm, retriever)

	_, _, err := svc.Respond(context.Background(), "what is vocaby")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrCodeContext, domainErr.Code)
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestRespond_RetrievalDomainErrorPassesThrough(t *testing.T) {
	llm := new(MockLanguageModel)
	retriever := new(MockRetriever)
	retriever.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrIndexNotBuilt)

	svc := newAssistant(llm, retriever)

	_, _, err := svc.Respond(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrIndexNotBuilt)
}

func TestRespond_ModelFailureIsDownstreamError(t *testing.T) {
	llm := new(MockLanguageModel)
	llm.On("Complete", mock.Anything, mock.Anything).
		Return("", errors.New("rate limited"))
	retriever := new(MockRetriever)
	retriever.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return([]index.Result{}, nil)

	svc := newAssistant(llm, retriever)

	_, _, err := svc.Respond(context.Background(), "hello")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrCodeDownstream, domainErr.Code)
}

func TestRespond_CoercesMalformedModelOutput(t *testing.T) {
	llm := new(MockLanguageModel)
	llm.On("Complete", mock.Anything, mock.Anything).
		Return("I cannot answer in JSON, sorry.", nil)
	retriever := new(MockRetriever)
	retriever.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return([]index.Result{}, nil)

	svc := newAssistant(llm, retriever)

	resp, _, err := svc.Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "I cannot answer in JSON, sorry.", resp.Response)
	assert.NotNil(t, resp.Links)
	assert.NotNil(t, resp.MediaLinks)
	assert.NotNil(t, resp.PersonalInfo)
}

func TestRespond_DetectsMentionedRepo(t *testing.T) {
	llm := new(MockLanguageModel)
	llm.On("Complete", mock.Anything, mock.Anything).
		Return(`{"response": "Vocaby is a vocabulary app."}`, nil)
	retriever := new(MockRetriever)
	retriever.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return([]index.Result{{Content: "Vocaby README", RepoName: "Vocaby"}}, nil)

	svc := newAssistant(llm, retriever)

	resp, repoName, err := svc.Respond(context.Background(), "tell me about vocaby")
	require.NoError(t, err)
	assert.Equal(t, "Vocaby", repoName)
	assert.Equal(t, "Vocaby is a vocabulary app.", resp.Response)
}

func TestRespond_PromptCarriesContextAndQuery(t *testing.T) {
	llm := new(MockLanguageModel)
	llm.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "chunk about detection") &&
			strings.Contains(prompt, "what does the YOLO project do")
	})).Return(`{"response": "ok"}`, nil)
	retriever := new(MockRetriever)
	retriever.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return([]index.Result{{Content: "chunk about detection", RepoName: "YOLO"}}, nil)

	svc := newAssistant(llm, retriever)

	_, _, err := svc.Respond(context.Background(), "what does the YOLO project do")
	require.NoError(t, err)
	llm.AssertExpectations(t)
}

func TestRespond_RewritesRelativeMediaLinks(t *testing.T) {
	llm := new(MockLanguageModel)
	llm.On("Complete", mock.Anything, mock.Anything).
		Return(`{"response": "Vocaby demo.", "media_links": ["assets/demo.gif", "https://example.com/kept.png"]}`, nil)
	retriever := new(MockRetriever)
	retriever.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return([]index.Result{}, nil)

	svc := newAssistant(llm, retriever)

	resp, _, err := svc.Respond(context.Background(), "show me the Vocaby demo")
	require.NoError(t, err)
	require.Len(t, resp.MediaLinks, 2)
	assert.Equal(t, "https://raw.githubusercontent.com/abdullah-khaled0/Vocaby/main/assets/demo.gif", resp.MediaLinks[0])
	assert.Equal(t, "https://example.com/kept.png", resp.MediaLinks[1])
}

func TestRespond_LeavesRelativeMediaLinksWithoutRepo(t *testing.T) {
	llm := new(MockLanguageModel)
	llm.On("Complete", mock.Anything, mock.Anything).
		Return(`{"response": "ok", "media_links": ["assets/demo.gif"]}`, nil)
	retriever := new(MockRetriever)
	retriever.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return([]index.Result{}, nil)

	svc := newAssistant(llm, retriever)

	resp, repoName, err := svc.Respond(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Empty(t, repoName)
	assert.Equal(t, []string{"assets/demo.gif"}, resp.MediaLinks)
}
