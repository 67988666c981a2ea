// Package provider defines the transcription capability and its concrete
// backends. A provider either yields text or an absence with a diagnostic
// category; callers branch on presence, never on the category.
package provider

import (
	"context"
	"fmt"
)

// Category classifies why a transcription produced no text. It exists for
// operator diagnostics only; control flow treats every absence the same.
type Category int

const (
	OK Category = iota
	MissingFile
	UploadFailed
	AuthFailed
	RateLimited
	HTTPError
	NetworkError
	EmptyResult
)

func (c Category) String() string {
	switch c {
	case OK:
		return "ok"
	case MissingFile:
		return "missing_file"
	case UploadFailed:
		return "upload_failed"
	case AuthFailed:
		return "auth_failed"
	case RateLimited:
		return "rate_limited"
	case HTTPError:
		return "http_error"
	case NetworkError:
		return "network_error"
	case EmptyResult:
		return "empty_result"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Outcome is the result of one transcription attempt: either text, or an
// absence carrying its diagnostic category and detail.
type Outcome struct {
	Text     string
	Category Category
	Detail   string
}

func (o Outcome) HasText() bool { return o.Category == OK }

func present(text string) Outcome {
	return Outcome{Text: text}
}

func absent(c Category, detail string) Outcome {
	return Outcome{Category: c, Detail: detail}
}

type Provider interface {
	Name() string
	// Transcribe runs exactly once per call: no retry, no backoff.
	Transcribe(ctx context.Context, audioPath string) Outcome
	Cleanup()
}

// Settings configures the hosted model invocation.
type Settings struct {
	Token     string
	Model     string
	Task      string
	Language  string
	Timestamp string
	BatchSize int
	Diarize   bool
}

func New(name string, s Settings) (Provider, error) {
	switch name {
	case "replicate":
		return NewReplicate(s)
	default:
		return nil, fmt.Errorf("unknown transcription provider %q (available: replicate)", name)
	}
}
