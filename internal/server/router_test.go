package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abdullah-khaled0/voice-secretary/internal/api/handlers"
	"github.com/abdullah-khaled0/voice-secretary/internal/audio"
	"github.com/abdullah-khaled0/voice-secretary/internal/domain"
	"github.com/abdullah-khaled0/voice-secretary/internal/service"
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

type MockSpeechEngine struct {
	mock.Mock
}

func (m *MockSpeechEngine) Transcribe(ctx context.Context, wav []byte) (string, error) {
	args := m.Called(ctx, wav)
	return args.String(0), args.Error(1)
}

func (m *MockSpeechEngine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newTestRouter(assistant *MockAssistant) http.Handler {
	speech := service.NewSpeechService(new(MockSpeechEngine), 24000)
	return NewRouter(RouterConfig{
		QueryHandler:   handlers.NewQueryHandler(assistant, time.Minute),
		VoiceHandler:   handlers.NewVoiceHandler(assistant, speech, time.Minute, []string{"*"}),
		AllowedOrigins: []string{"*"},
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(new(MockAssistant))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestRouter_TextQuery(t *testing.T) {
	mockAssistant := new(MockAssistant)
	resp := &domain.StructuredResponse{
		Response:     "hello",
		Links:        []domain.PlatformLink{},
		MediaLinks:   []string{},
		PersonalInfo: []domain.PersonalInfo{},
	}
	mockAssistant.On("Respond", mock.Anything, "hi").Return(resp, "", nil)

	router := newTestRouter(mockAssistant)

	req := httptest.NewRequest(http.MethodPost, "/text_query", strings.NewReader(`{"query": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(new(MockAssistant))

	req := httptest.NewRequest(http.MethodOptions, "/text_query", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(new(MockAssistant))

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_WebSocketEndpointRequiresUpgrade(t *testing.T) {
	router := newTestRouter(new(MockAssistant))

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Dials a real WebSocket through the assembled router so the upgrade has to
// pass every middleware-wrapped response writer.
func TestRouter_VoiceSessionThroughMiddleware(t *testing.T) {
	engine := new(MockSpeechEngine)
	engine.On("Transcribe", mock.Anything, mock.Anything).Return("hello", nil)
	engine.On("Synthesize", mock.Anything, "Hi.").Return([]byte{1, 0}, nil)

	mockAssistant := new(MockAssistant)
	resp := &domain.StructuredResponse{
		Response:     "Hi.",
		Links:        []domain.PlatformLink{},
		MediaLinks:   []string{},
		PersonalInfo: []domain.PersonalInfo{},
	}
	mockAssistant.On("Respond", mock.Anything, "hello").Return(resp, "", nil)

	speech := service.NewSpeechService(engine, 24000)
	router := NewRouter(RouterConfig{
		QueryHandler:   handlers.NewQueryHandler(mockAssistant, time.Minute),
		VoiceHandler:   handlers.NewVoiceHandler(mockAssistant, speech, time.Minute, []string{"*"}),
		AllowedOrigins: []string{"*"},
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	samples := make([]int16, 320)
	wav := audio.SamplesToWAV(samples, audio.RecognitionSampleRate, 1)
	payload := base64.StdEncoding.EncodeToString(wav)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frame handlers.VoiceFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "hello", frame.Transcript)
	assert.Equal(t, 0, frame.SegmentIndex)

	require.NoError(t, conn.ReadJSON(&frame))
	assert.True(t, frame.IsLastSegment)
}
