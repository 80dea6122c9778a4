package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdullah-khaled0/voice-secretary/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) Respond(ctx context.Context, query string) (*domain.StructuredResponse, string, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.StructuredResponse), args.String(1), args.Error(2)
}

func postQuery(t *testing.T, handler *QueryHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/text_query", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.TextQuery(w, req)
	return w
}

func TestTextQuery_Success(t *testing.T) {
	mockAssistant := new(MockAssistant)
	resp := &domain.StructuredResponse{
		Response:     "Vocaby is a vocabulary app.",
		Links:        []domain.PlatformLink{{Platform: "LinkedIn", URL: "https://linkedin.com/in/x"}},
		MediaLinks:   []string{},
		PersonalInfo: []domain.PersonalInfo{},
	}
	mockAssistant.On("Respond", mock.Anything, "tell me about vocaby").Return(resp, "Vocaby", nil)

	handler := NewQueryHandler(mockAssistant, time.Minute)
	w := postQuery(t, handler, `{"query": "tell me about vocaby"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	// The body is the structured response itself, not an envelope.
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Vocaby is a vocabulary app.", body["response"])
	assert.NotContains(t, body, "data")
	mockAssistant.AssertExpectations(t)
}

func TestTextQuery_InvalidBody(t *testing.T) {
	mockAssistant := new(MockAssistant)
	handler := NewQueryHandler(mockAssistant, time.Minute)

	w := postQuery(t, handler, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAssistant.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything)
}

func TestTextQuery_EmptyQuery(t *testing.T) {
	mockAssistant := new(MockAssistant)
	handler := NewQueryHandler(mockAssistant, time.Minute)

	for _, body := range []string{`{"query": ""}`, `{"query": "   "}`, `{}`} {
		w := postQuery(t, handler, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	mockAssistant.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything)
}

func TestTextQuery_AssistantFailure(t *testing.T) {
	mockAssistant := new(MockAssistant)
	mockAssistant.On("Respond", mock.Anything, "hello").
		Return(nil, "", domain.NewDomainError(domain.ErrCodeDownstream, "language model call failed"))

	handler := NewQueryHandler(mockAssistant, time.Minute)
	w := postQuery(t, handler, `{"query": "hello"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "language model call failed")
}
