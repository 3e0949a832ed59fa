package config

import "time"

// VoiceConfig configures the speech capabilities handed to the voice runtime.
// They are optional: a capability that fails to initialise is disabled.
type VoiceConfig struct {
	TTS TTSConfig `yaml:"tts"`
	STT STTConfig `yaml:"stt"`
	VAD VADConfig `yaml:"vad"`
}

// TTSConfig configures speech synthesis.
type TTSConfig struct {
	Provider   string `yaml:"provider"` // murf
	APIKey     string `yaml:"api_key"`
	Voice      string `yaml:"voice"`
	Style      string `yaml:"style"`
	TextPacing bool   `yaml:"text_pacing"`
}

// STTConfig configures speech recognition.
type STTConfig struct {
	Provider string `yaml:"provider"` // deepgram
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

// VADConfig configures voice activity detection.
type VADConfig struct {
	Provider            string  `yaml:"provider"` // silero
	ActivationThreshold float64 `yaml:"activation_threshold"`
	MinSilence          string  `yaml:"min_silence"`
}

// GetMinSilence returns the VAD silence window as a duration.
func (c VADConfig) GetMinSilence() time.Duration {
	d, err := time.ParseDuration(c.MinSilence)
	if err != nil {
		return 550 * time.Millisecond
	}
	return d
}
