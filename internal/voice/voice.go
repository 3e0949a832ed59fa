// Package voice describes the speech capabilities a session may use.
// Audio transport is handled by the hosting voice runtime; this package only
// owns provider settings and the synthesis options tools are allowed to
// change mid-session.
package voice

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Pratyush-06/Barista-Agent/internal/config"
	"github.com/Pratyush-06/Barista-Agent/internal/logging"
)

// ErrMissingAPIKey is returned when a hosted provider has no key.
var ErrMissingAPIKey = errors.New("missing api key")

// ErrUnsupportedProvider is returned for providers this build cannot drive.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// Options are the synthesis settings of a TTS voice.
type Options struct {
	Voice      string
	Style      string
	TextPacing bool
}

func (o Options) String() string {
	return fmt.Sprintf("%s/%s", o.Voice, o.Style)
}

// Synthesizer is a text-to-speech engine whose voice can be switched while
// a session is live.
type Synthesizer interface {
	Provider() string
	Options() Options
	UpdateOptions(opts Options)
}

// MurfTTS holds the Murf voice settings of a session.
type MurfTTS struct {
	mu     sync.RWMutex
	apiKey string
	opts   Options
}

// NewMurfTTS validates cfg and returns a synthesizer.
func NewMurfTTS(cfg config.TTSConfig) (*MurfTTS, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("murf: %w", ErrMissingAPIKey)
	}
	return &MurfTTS{
		apiKey: cfg.APIKey,
		opts:   Options{Voice: cfg.Voice, Style: cfg.Style, TextPacing: cfg.TextPacing},
	}, nil
}

// Provider implements Synthesizer.
func (m *MurfTTS) Provider() string { return "murf" }

// Options implements Synthesizer.
func (m *MurfTTS) Options() Options {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opts
}

// UpdateOptions implements Synthesizer. Empty fields keep their value.
func (m *MurfTTS) UpdateOptions(opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if opts.Voice != "" {
		m.opts.Voice = opts.Voice
	}
	if opts.Style != "" {
		m.opts.Style = opts.Style
	}
	m.opts.TextPacing = opts.TextPacing
	logging.VoiceDebug("TTS voice switched to %s", m.opts)
}

// Transcriber describes the speech-to-text model.
type Transcriber struct {
	Provider string
	Model    string
	Language string
}

// NewDeepgramSTT validates cfg and returns a transcriber description.
func NewDeepgramSTT(cfg config.STTConfig) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepgram: %w", ErrMissingAPIKey)
	}
	return &Transcriber{Provider: "deepgram", Model: cfg.Model, Language: cfg.Language}, nil
}

// Detector describes voice activity detection.
type Detector struct {
	Provider            string
	ActivationThreshold float64
	MinSilence          time.Duration
}

// NewDetector returns the VAD description for cfg.
func NewDetector(cfg config.VADConfig) (*Detector, error) {
	if cfg.Provider != "silero" {
		return nil, fmt.Errorf("vad %q: %w", cfg.Provider, ErrUnsupportedProvider)
	}
	return &Detector{
		Provider:            cfg.Provider,
		ActivationThreshold: cfg.ActivationThreshold,
		MinSilence:          cfg.GetMinSilence(),
	}, nil
}

// Capabilities is the optional speech stack of a process. Any field may be
// nil when its provider failed to initialise.
type Capabilities struct {
	TTS Synthesizer
	STT *Transcriber
	VAD *Detector
}

// LoadCapabilities initialises every capability it can. Failures are logged
// and leave the capability nil.
func LoadCapabilities(cfg config.VoiceConfig) Capabilities {
	var caps Capabilities

	switch cfg.TTS.Provider {
	case "murf":
		if tts, err := NewMurfTTS(cfg.TTS); err != nil {
			logging.VoiceWarn("TTS disabled: %v", err)
		} else {
			caps.TTS = tts
		}
	default:
		logging.VoiceWarn("TTS disabled: %v %q", ErrUnsupportedProvider, cfg.TTS.Provider)
	}

	switch cfg.STT.Provider {
	case "deepgram":
		if stt, err := NewDeepgramSTT(cfg.STT); err != nil {
			logging.VoiceWarn("STT disabled: %v", err)
		} else {
			caps.STT = stt
		}
	default:
		logging.VoiceWarn("STT disabled: %v %q", ErrUnsupportedProvider, cfg.STT.Provider)
	}

	if vad, err := NewDetector(cfg.VAD); err != nil {
		logging.VoiceWarn("VAD disabled: %v", err)
	} else {
		caps.VAD = vad
	}

	logging.Voice("Voice capabilities: tts=%v stt=%v vad=%v", caps.TTS != nil, caps.STT != nil, caps.VAD != nil)
	return caps
}
