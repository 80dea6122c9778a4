package service

import (
	"context"
	"io"
	"strings"
	"unicode"

	"github.com/abdullah-khaled0/voice-secretary/internal/audio"
	"github.com/abdullah-khaled0/voice-secretary/internal/domain"
)

// SpeechEngine is the black-box speech backend: audio in, text out and back.
type SpeechEngine interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioSegment is one synthesized piece of the response, in production order.
type AudioSegment struct {
	PCM        []byte
	SampleRate int
	Text       string
}

// SpeechService converts between audio and text for voice sessions.
type SpeechService struct {
	engine     SpeechEngine
	sampleRate int
}

func NewSpeechService(engine SpeechEngine, sampleRate int) *SpeechService {
	return &SpeechService{engine: engine, sampleRate: sampleRate}
}

// Transcribe normalizes inbound audio to mono 16 kHz and runs recognition.
// Decode and recognition failures surface as TRANSCRIPTION_ERROR.
func (s *SpeechService) Transcribe(ctx context.Context, audioBytes []byte) (string, error) {
	normalized, err := audio.NormalizeWAV(audioBytes)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeTranscription, "failed to decode audio", err)
	}

	text, err := s.engine.Transcribe(ctx, normalized)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeTranscription, "speech recognition failed", err)
	}

	return text, nil
}

// Speak returns a lazy, forward-only stream of audio segments over the text.
// Nothing is synthesized until Next is called, and segment i+1 is not
// produced before segment i has been handed out.
func (s *SpeechService) Speak(ctx context.Context, text string) *SegmentStream {
	return &SegmentStream{
		ctx:        ctx,
		engine:     s.engine,
		sampleRate: s.sampleRate,
		sentences:  splitSentences(text),
	}
}

// SegmentStream is a finite, ordered, non-restartable audio producer.
type SegmentStream struct {
	ctx        context.Context
	engine     SpeechEngine
	sampleRate int
	sentences  []string
	pos        int
}

// Next synthesizes and returns the next segment, or io.EOF once exhausted.
// Synthesis failures surface as DOWNSTREAM_ERROR and end the stream.
func (st *SegmentStream) Next() (*AudioSegment, error) {
	for st.pos < len(st.sentences) {
		if err := st.ctx.Err(); err != nil {
			st.pos = len(st.sentences)
			return nil, err
		}

		sentence := st.sentences[st.pos]
		st.pos++

		pcm, err := st.engine.Synthesize(st.ctx, sentence)
		if err != nil {
			st.pos = len(st.sentences)
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeDownstream, "speech synthesis failed", err)
		}
		if len(pcm) == 0 {
			continue
		}

		return &AudioSegment{PCM: pcm, SampleRate: st.sampleRate, Text: sentence}, nil
	}

	return nil, io.EOF
}

// splitSentences breaks response text into utterance-sized pieces so audio
// can start flowing before the whole reply is synthesized.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" && hasLetterOrDigit(s) {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" && hasLetterOrDigit(s) {
		sentences = append(sentences, s)
	}

	return sentences
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
