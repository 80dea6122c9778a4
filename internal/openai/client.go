package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from text-embedding-3-small
	DefaultEmbeddingDimensions = 1536

	// DefaultChatModel is the completion model used when none is configured
	DefaultChatModel = openai.GPT4oMini
	// DefaultWhisperModel is the speech-to-text model
	DefaultWhisperModel = openai.Whisper1
	// DefaultSpeechModel is the text-to-speech model
	DefaultSpeechModel = string(openai.TTSModel1)
	// DefaultSpeechVoice is the text-to-speech voice
	DefaultSpeechVoice = string(openai.VoiceAlloy)

	// SpeechSampleRate is the sample rate of raw PCM produced by the TTS endpoint
	SpeechSampleRate = 24000
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when embedding has wrong dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY not set")
)

// API is the subset of the OpenAI API the assistant uses. Split out so tests
// can substitute a mock.
type API interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
	CreateCompletion(ctx context.Context, prompt string) (string, error)
	CreateTranscription(ctx context.Context, wav []byte) (string, error)
	CreateSpeech(ctx context.Context, text string) ([]byte, error)
}

// Config holds model selection for the OpenAI client.
type Config struct {
	APIKey              string
	ChatModel           string
	EmbeddingModel      string
	EmbeddingDimensions int
	WhisperModel        string
	SpeechModel         string
	SpeechVoice         string
}

// Client wraps the OpenAI API client.
type Client struct {
	api            API
	embeddingModel string
	dimensions     int
}

// OpenAIAdapter implements API against the real OpenAI endpoints.
type OpenAIAdapter struct {
	client *openai.Client
	cfg    Config
}

func NewOpenAIAdapter(cfg Config) *OpenAIAdapter {
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.WhisperModel == "" {
		cfg.WhisperModel = DefaultWhisperModel
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = DefaultSpeechModel
	}
	if cfg.SpeechVoice == "" {
		cfg.SpeechVoice = DefaultSpeechVoice
	}
	return &OpenAIAdapter{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
	}
}

// CreateEmbeddings calls the OpenAI API to create embeddings
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(a.cfg.EmbeddingModel),
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

// CreateCompletion sends a single-turn chat completion and returns the text.
func (a *OpenAIAdapter) CreateCompletion(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.cfg.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// CreateTranscription runs Whisper speech-to-text on a WAV payload.
func (a *OpenAIAdapter) CreateTranscription(ctx context.Context, wav []byte) (string, error) {
	resp, err := a.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    a.cfg.WhisperModel,
		Reader:   bytes.NewReader(wav),
		FilePath: "audio.wav",
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// CreateSpeech synthesizes text into raw PCM (s16le, 24 kHz, mono).
func (a *OpenAIAdapter) CreateSpeech(ctx context.Context, text string) ([]byte, error) {
	resp, err := a.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(a.cfg.SpeechModel),
		Input:          text,
		Voice:          openai.SpeechVoice(a.cfg.SpeechVoice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	return io.ReadAll(resp)
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Client{
		api:            NewOpenAIAdapter(cfg),
		embeddingModel: model,
		dimensions:     dimensions,
	}
}

// NewClientWithAPI creates a client over a custom API implementation.
func NewClientWithAPI(api API, embeddingModel string) *Client {
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	return &Client{
		api:            api,
		embeddingModel: embeddingModel,
		dimensions:     DefaultEmbeddingDimensions,
	}
}

// EmbeddingModel identifies the embedding model in use; it is part of the
// persisted index's format contract.
func (c *Client) EmbeddingModel() string {
	return c.embeddingModel
}

// GenerateEmbedding generates an embedding for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embedding, err := c.api.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(embedding) != c.dimensions {
		return nil, ErrWrongDimensions
	}

	return embedding, nil
}

// Complete invokes the language model with a rendered prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyText
	}
	return c.api.CreateCompletion(ctx, prompt)
}

// Transcribe converts a normalized WAV payload to text.
func (c *Client) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", ErrEmptyText
	}
	return c.api.CreateTranscription(ctx, wav)
}

// Synthesize converts text into raw PCM samples.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	return c.api.CreateSpeech(ctx, text)
}
