package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abdullah-khaled0/voice-secretary/internal/audio"
	"github.com/abdullah-khaled0/voice-secretary/internal/domain"
	"github.com/abdullah-khaled0/voice-secretary/internal/service"
)

// Speech converts between audio and text for a voice turn.
type Speech interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
	Speak(ctx context.Context, text string) *service.SegmentStream
}

type VoiceHandler struct {
	assistant   Assistant
	speech      Speech
	turnTimeout time.Duration
	upgrader    websocket.Upgrader
}

func NewVoiceHandler(assistant Assistant, speech Speech, turnTimeout time.Duration, allowedOrigins []string) *VoiceHandler {
	return &VoiceHandler{
		assistant:   assistant,
		speech:      speech,
		turnTimeout: turnTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	allowAll := false
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		} else if o != "" {
			allowed[o] = struct{}{}
		}
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

// VoiceFrame is one message of the voice session protocol. Every frame
// carries the full transcript and structured response so clients can render
// text as soon as the first audio segment lands.
type VoiceFrame struct {
	Transcript    string                     `json:"transcript"`
	Response      *domain.StructuredResponse `json:"response"`
	AudioSegment  string                     `json:"audio_segment"`
	SegmentIndex  int                        `json:"segment_index"`
	IsLastSegment bool                       `json:"is_last_segment"`
	RepoName      string                     `json:"repo_name"`
}

// Session handles GET /ws. Each inbound message is one complete utterance;
// the handler answers with a stream of audio segment frames and keeps the
// connection open across turns, including after per-turn errors.
func (h *VoiceHandler) Session(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read failed: %v", err)
			}
			return
		}

		audioBytes, err := decodeAudioPayload(msgType, payload)
		if err != nil {
			h.writeErrorFrame(conn, err)
			continue
		}

		if err := h.handleTurn(r.Context(), conn, audioBytes); err != nil {
			h.writeErrorFrame(conn, err)
		}
	}
}

func decodeAudioPayload(msgType int, payload []byte) ([]byte, error) {
	if msgType == websocket.BinaryMessage {
		return payload, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "audio payload is not valid base64", err)
	}
	return decoded, nil
}

// handleTurn runs one full utterance: transcribe, respond, then stream audio
// segments followed by a final frame carrying the concatenated audio.
func (h *VoiceHandler) handleTurn(ctx context.Context, conn *websocket.Conn, audioBytes []byte) error {
	if h.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.turnTimeout)
		defer cancel()
	}

	transcript, err := h.speech.Transcribe(ctx, audioBytes)
	if err != nil {
		return err
	}

	resp, repoName, err := h.assistant.Respond(ctx, transcript)
	if err != nil {
		return err
	}

	stream := h.speech.Speak(ctx, resp.Response)

	var allPCM []byte
	sampleRate := 0
	segmentIndex := 0
	for {
		seg, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		allPCM = append(allPCM, seg.PCM...)
		sampleRate = seg.SampleRate

		frame := VoiceFrame{
			Transcript:    transcript,
			Response:      resp,
			AudioSegment:  base64.StdEncoding.EncodeToString(audio.PCMToWAV(seg.PCM, seg.SampleRate, 1)),
			SegmentIndex:  segmentIndex,
			IsLastSegment: false,
			RepoName:      repoName,
		}
		if err := conn.WriteJSON(frame); err != nil {
			return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to send audio segment", err)
		}
		segmentIndex++
	}

	// Final frame: all segments stitched together for clients that want one
	// playable file per turn.
	final := VoiceFrame{
		Transcript:    transcript,
		Response:      resp,
		SegmentIndex:  segmentIndex,
		IsLastSegment: true,
		RepoName:      repoName,
	}
	if len(allPCM) > 0 {
		final.AudioSegment = base64.StdEncoding.EncodeToString(audio.PCMToWAV(allPCM, sampleRate, 1))
	}
	if err := conn.WriteJSON(final); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to send final frame", err)
	}

	return nil
}

// writeErrorFrame reports a failed turn without tearing down the session.
func (h *VoiceHandler) writeErrorFrame(conn *websocket.Conn, turnErr error) {
	log.Printf("voice turn failed: %v", turnErr)

	frame := VoiceFrame{
		Transcript:    "",
		Response:      domain.NewErrorResponse(turnErr),
		AudioSegment:  "",
		SegmentIndex:  -1,
		IsLastSegment: true,
		RepoName:      "",
	}
	if err := conn.WriteJSON(frame); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		log.Printf("failed to send error frame: %v", err)
	}
}
