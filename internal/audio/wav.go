// Package audio provides the minimal WAV plumbing the speech channel needs:
// wrapping PCM for transport and normalizing inbound audio for recognition.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	// RecognitionSampleRate is the fixed format the speech-to-text engine is
	// calibrated for: 16 kHz mono s16le.
	RecognitionSampleRate = 16000

	// BitsPerSample is the only PCM bit depth handled here.
	BitsPerSample = 16
)

var (
	ErrNotWAV          = errors.New("payload is not a RIFF/WAVE stream")
	ErrUnsupportedWAV  = errors.New("unsupported WAV encoding, expected 16-bit PCM")
	ErrNoAudioData     = errors.New("WAV stream contains no audio data")
	errTruncatedChunks = errors.New("truncated WAV chunk list")
)

// PCM is decoded interleaved 16-bit audio.
type PCM struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// PCMToWAV wraps raw s16le PCM bytes with a 44-byte WAV header.
func PCMToWAV(pcmData []byte, sampleRate, channels int) []byte {
	dataLen := len(pcmData)
	byteRate := sampleRate * channels * BitsPerSample / 8
	blockAlign := channels * BitsPerSample / 8

	header := make([]byte, 44)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLen))
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], BitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))

	return append(header, pcmData...)
}

// SamplesToWAV encodes int16 samples as a mono-or-multichannel WAV payload.
func SamplesToWAV(samples []int16, sampleRate, channels int) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return PCMToWAV(pcm, sampleRate, channels)
}

// DecodeWAV parses a 16-bit PCM WAV payload, walking the chunk list rather
// than assuming a fixed 44-byte header.
func DecodeWAV(data []byte) (*PCM, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var (
		sampleRate int
		channels   int
		format     int
		bits       int
		audio      []byte
		haveFmt    bool
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkLen := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkLen > len(data) {
			return nil, fmt.Errorf("%w: %q", errTruncatedChunks, chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return nil, ErrUnsupportedWAV
			}
			format = int(binary.LittleEndian.Uint16(data[body : body+2]))
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			audio = data[body : body+chunkLen]
		}

		// Chunks are word-aligned.
		offset = body + chunkLen
		if chunkLen%2 == 1 {
			offset++
		}
	}

	if !haveFmt {
		return nil, ErrNotWAV
	}
	if format != 1 || bits != BitsPerSample || channels < 1 {
		return nil, ErrUnsupportedWAV
	}
	if len(audio) < 2 {
		return nil, ErrNoAudioData
	}

	samples := make([]int16, len(audio)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(audio[i*2:]))
	}

	return &PCM{Samples: samples, SampleRate: sampleRate, Channels: channels}, nil
}

// Normalize downmixes to a single channel and resamples to the recognition
// rate. The input is unchanged when already in the target format.
func Normalize(p *PCM) *PCM {
	mono := p.Samples
	if p.Channels > 1 {
		frames := len(p.Samples) / p.Channels
		mono = make([]int16, frames)
		for i := 0; i < frames; i++ {
			var sum int
			for ch := 0; ch < p.Channels; ch++ {
				sum += int(p.Samples[i*p.Channels+ch])
			}
			mono[i] = int16(sum / p.Channels)
		}
	}

	if p.SampleRate == RecognitionSampleRate {
		return &PCM{Samples: mono, SampleRate: RecognitionSampleRate, Channels: 1}
	}

	// Round up so sub-chunk utterances keep at least one sample instead of
	// degenerating to an empty stream.
	ratio := float64(p.SampleRate) / float64(RecognitionSampleRate)
	outLen := int(math.Ceil(float64(len(mono)) / ratio))
	if outLen < 1 && len(mono) > 0 {
		outLen = 1
	}
	out := make([]int16, outLen)
	for i := range out {
		src := int(float64(i) * ratio)
		if src >= len(mono) {
			src = len(mono) - 1
		}
		out[i] = mono[src]
	}

	return &PCM{Samples: out, SampleRate: RecognitionSampleRate, Channels: 1}
}

// NormalizeWAV decodes, normalizes, and re-encodes a WAV payload for the
// recognition engine.
func NormalizeWAV(data []byte) ([]byte, error) {
	pcm, err := DecodeWAV(data)
	if err != nil {
		return nil, err
	}
	norm := Normalize(pcm)
	return SamplesToWAV(norm.Samples, norm.SampleRate, norm.Channels), nil
}
