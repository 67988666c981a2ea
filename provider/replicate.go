package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dicto/log"
)

const (
	replicateFilesURL       = "https://api.replicate.com/v1/files"
	replicatePredictionsURL = "https://api.replicate.com/v1/predictions"

	pollInterval = 500 * time.Millisecond
	pollDeadline = 2 * time.Minute
)

// Replicate transcribes by uploading the audio artifact to Replicate's file
// storage and running a hosted whisper model against the resulting URL.
type Replicate struct {
	settings Settings
	client   *timedClient

	filesURL       string
	predictionsURL string
}

func NewReplicate(s Settings) (*Replicate, error) {
	if s.Token == "" {
		return nil, fmt.Errorf("REPLICATE_API_TOKEN not set")
	}
	return &Replicate{
		settings:       s,
		client:         newTimedClient(),
		filesURL:       replicateFilesURL,
		predictionsURL: replicatePredictionsURL,
	}, nil
}

func (r *Replicate) Name() string { return "replicate" }

func (r *Replicate) Cleanup() {
	r.client.client.CloseIdleConnections()
}

func (r *Replicate) Transcribe(ctx context.Context, audioPath string) Outcome {
	if _, err := os.Stat(audioPath); err != nil {
		return absent(MissingFile, audioPath)
	}

	audioURL, fail := r.upload(ctx, audioPath)
	if audioURL == "" {
		return fail
	}

	return r.predict(ctx, audioURL)
}

type fileResponse struct {
	URLs struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// upload posts the audio file as binary content and returns the retrievable
// URL. No retry: failure to obtain a URL is an absence, reported through
// the second return value.
func (r *Replicate) upload(ctx context.Context, audioPath string) (string, Outcome) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", absent(MissingFile, err.Error())
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="content"; filename=%q`, filepath.Base(audioPath)))
	header.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", absent(UploadFailed, err.Error())
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", absent(UploadFailed, err.Error())
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", r.filesURL, &body)
	if err != nil {
		return "", absent(UploadFailed, err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+r.settings.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.do(req)
	if err != nil {
		return "", absent(NetworkError, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", absent(categorize(resp.StatusCode, UploadFailed), errorDetail(resp))
	}

	var fr fileResponse
	if err := json.Unmarshal(resp.Body, &fr); err != nil || fr.URLs.Get == "" {
		return "", absent(UploadFailed, "no file URL in upload response")
	}
	return fr.URLs.Get, Outcome{}
}

type prediction struct {
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// predict creates one prediction and waits for a terminal status, then
// normalizes whatever shape the model returned.
func (r *Replicate) predict(ctx context.Context, audioURL string) Outcome {
	input := map[string]any{
		"audio":         audioURL,
		"task":          r.settings.Task,
		"language":      r.settings.Language,
		"timestamp":     r.settings.Timestamp,
		"batch_size":    r.settings.BatchSize,
		"diarise_audio": r.settings.Diarize,
	}

	url := r.predictionsURL
	payload := map[string]any{"input": input}
	if _, version, ok := strings.Cut(r.settings.Model, ":"); ok {
		payload["version"] = version
	} else {
		url = strings.TrimSuffix(r.predictionsURL, "/predictions") +
			"/models/" + r.settings.Model + "/predictions"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return absent(HTTPError, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return absent(HTTPError, err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+r.settings.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait=60")

	resp, err := r.client.do(req)
	if err != nil {
		return absent(NetworkError, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return absent(categorize(resp.StatusCode, HTTPError), errorDetail(resp))
	}
	log.Infof("prediction created (ttfb %dms)", resp.TTFB.Milliseconds())

	var p prediction
	if err := json.Unmarshal(resp.Body, &p); err != nil {
		return absent(HTTPError, "prediction parse: "+err.Error())
	}

	p, fail := r.await(ctx, p)
	if fail.Category != OK {
		return fail
	}

	text := normalizeOutput(p.Output)
	if text == "" {
		return absent(EmptyResult, "transcription returned empty result")
	}
	return present(text)
}

// await polls the prediction URL until it leaves the starting/processing
// states. The Prefer header usually makes this a no-op.
func (r *Replicate) await(ctx context.Context, p prediction) (prediction, Outcome) {
	deadline := time.Now().Add(pollDeadline)
	for {
		switch p.Status {
		case "succeeded":
			return p, Outcome{}
		case "starting", "processing":
		default:
			return p, absent(HTTPError, "prediction "+p.Status+": "+string(p.Error))
		}

		if p.URLs.Get == "" || time.Now().After(deadline) {
			return p, absent(HTTPError, "prediction did not complete")
		}
		select {
		case <-ctx.Done():
			return p, absent(NetworkError, ctx.Err().Error())
		case <-time.After(pollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, "GET", p.URLs.Get, nil)
		if err != nil {
			return p, absent(HTTPError, err.Error())
		}
		req.Header.Set("Authorization", "Bearer "+r.settings.Token)
		resp, err := r.client.do(req)
		if err != nil {
			return p, absent(NetworkError, err.Error())
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return p, absent(categorize(resp.StatusCode, HTTPError), errorDetail(resp))
		}
		if err := json.Unmarshal(resp.Body, &p); err != nil {
			return p, absent(HTTPError, "prediction parse: "+err.Error())
		}
	}
}

func categorize(status int, fallback Category) Category {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return AuthFailed
	case http.StatusTooManyRequests:
		return RateLimited
	default:
		return fallback
	}
}

func errorDetail(resp *timedResponse) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body, &e); err == nil && e.Detail != "" {
		return fmt.Sprintf("%d: %s", resp.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%d: %s", resp.StatusCode, strings.TrimSpace(string(resp.Body)))
}
