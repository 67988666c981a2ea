// Package config loads settings from the environment (and an optional .env
// file). Invalid values fall back to defaults with a warning; configuration
// never fails startup.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"dicto/log"
	"dicto/vocab"
)

type Replicate struct {
	Token     string
	Model     string
	Task      string
	Language  string // language code, or "None" for auto-detection
	Timestamp string // "chunk" or "word"
	BatchSize int
	Diarize   bool
}

type Config struct {
	SampleRate          int
	MinRecordingSeconds float64
	MaxRecordingMinutes float64

	Provider  string
	Replicate Replicate

	// Modifiers is the hotkey chord; recording runs while both are held.
	Modifiers [2]string

	AudioFormat    string
	TempDir        string
	TempFilePrefix string
	RecordingsFile string

	Vocabulary []vocab.Entry

	StatusPlugins []string
	StatusFile    string
}

const defaultModel = "vaibhavs10/incredibly-fast-whisper:3ab86df6c8f54c11309d4d1f930ac292bad43ace52d10c80d87eb258b3c9f79c"

// Load reads the environment. Call once at startup.
func Load() Config {
	godotenv.Load()

	cfg := Config{
		SampleRate:          intEnv("SAMPLE_RATE", 44100, 8000, 48000),
		MinRecordingSeconds: floatEnv("MIN_RECORDING_SECONDS", 1.0, 0.1, 0),
		MaxRecordingMinutes: floatEnv("MAX_RECORDING_MINUTES", 5.0, 0.1, 60.0),
		Provider:            strings.ToLower(strEnv("PROVIDER", "replicate")),
		Replicate: Replicate{
			Token:     os.Getenv("REPLICATE_API_TOKEN"),
			Model:     strEnv("REPLICATE_MODEL", defaultModel),
			Task:      "transcribe",
			Language:  strEnv("TRANSCRIBE_LANGUAGE", "None"),
			Timestamp: "chunk",
			BatchSize: 64,
			Diarize:   false,
		},
		AudioFormat:    formatEnv("AUDIO_FORMAT", "wav"),
		TempDir:        strEnv("TEMP_DIR", "temp"),
		TempFilePrefix: "voice_recording_",
		RecordingsFile: strEnv("RECORDINGS_FILE", "recordings.json"),
		Vocabulary:     vocabEnv("VOCABULARY"),
		StatusPlugins:  splitCSV(strEnv("STATUS_PLUGINS", "console")),
		StatusFile:     strEnv("STATUS_FILE", "/tmp/dicto_status"),
	}

	cfg.Modifiers = hotkeyEnv("HOTKEY", [2]string{"ctrl", "alt"})

	// The minimum must leave room under the ceiling.
	maxSeconds := cfg.MaxRecordingMinutes * 60
	if cfg.MinRecordingSeconds >= maxSeconds {
		clamped := maxSeconds * 0.1
		log.Warnf("MIN_RECORDING_SECONDS (%.1f) >= max recording duration (%.1fs), adjusting to %.1f",
			cfg.MinRecordingSeconds, maxSeconds, clamped)
		cfg.MinRecordingSeconds = clamped
	}

	return cfg
}

func intEnv(key string, def, min, max int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warnf("invalid %s value %q, using default %d", key, raw, def)
		return def
	}
	if v < min || (max > 0 && v > max) {
		log.Warnf("%s=%d outside [%d, %d], using default %d", key, v, min, max, def)
		return def
	}
	return v
}

// floatEnv treats min as exclusive and max as inclusive (0 means no upper
// bound): durations must be strictly above the floor.
func floatEnv(key string, def, min, max float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Warnf("invalid %s value %q, using default %g", key, raw, def)
		return def
	}
	if v <= min || (max > 0 && v > max) {
		log.Warnf("%s=%g outside allowed range, using default %g", key, v, def)
		return def
	}
	return v
}

func strEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func formatEnv(key, def string) string {
	v := strings.ToLower(strEnv(key, def))
	switch v {
	case "wav", "flac":
		return v
	default:
		log.Warnf("unknown %s %q (use wav or flac), using %q", key, v, def)
		return def
	}
}

var knownModifiers = map[string]bool{
	"ctrl": true, "alt": true, "shift": true, "super": true,
}

func hotkeyEnv(key string, def [2]string) [2]string {
	raw := strEnv(key, def[0]+"+"+def[1])
	parts := strings.Split(strings.ToLower(raw), "+")
	if len(parts) != 2 {
		log.Warnf("invalid %s %q (want two modifiers like ctrl+alt), using %s+%s", key, raw, def[0], def[1])
		return def
	}
	a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if !knownModifiers[a] || !knownModifiers[b] || a == b {
		log.Warnf("invalid %s %q, using %s+%s", key, raw, def[0], def[1])
		return def
	}
	return [2]string{a, b}
}

func vocabEnv(key string) []vocab.Entry {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return vocab.Defaults()
	}
	var entries []vocab.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Warnf("invalid %s JSON, using built-in vocabulary: %v", key, err)
		return vocab.Defaults()
	}
	return entries
}

func splitCSV(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
