package provider

import (
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

type timedClient struct {
	client *http.Client
}

func newTimedClient() *timedClient {
	return &timedClient{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        4,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
	}
}

type timedResponse struct {
	Body       []byte
	StatusCode int
	Header     http.Header
	TTFB       time.Duration
	Total      time.Duration
}

func (c *timedClient) do(req *http.Request) (*timedResponse, error) {
	var wroteRequest, firstByte time.Time
	var ttfb time.Duration

	trace := &httptrace.ClientTrace{
		WroteRequest: func(_ httptrace.WroteRequestInfo) { wroteRequest = time.Now() },
		GotFirstResponseByte: func() {
			firstByte = time.Now()
			ttfb = firstByte.Sub(wroteRequest)
		},
	}

	req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))
	reqStart := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &timedResponse{
		Body:       body,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		TTFB:       ttfb,
		Total:      time.Since(reqStart),
	}, nil
}
