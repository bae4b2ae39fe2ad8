// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

// Package chat proxies user messages to the Gemini text-generation API.
//
// # Architecture
//
// This is a thin pass-through: no conversation state is stored, and the
// upstream response is reduced to a single reply string. When the request
// carries a valid session the prompt is personalized with the caller's
// display name; anonymous callers get a neutral prompt.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docsafe-app/docsafe/internal/platform/apperr"
	"github.com/docsafe-app/docsafe/internal/platform/sec"
)

// defaultEndpoint is the Gemini generateContent REST base.
const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// upstreamTimeout bounds one generation round trip.
const upstreamTimeout = 20 * time.Second

// maxUpstreamResponse caps how much of the upstream body is read.
const maxUpstreamResponse = 1 << 20

// Service implements the chat pass-through use case.
type Service struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
}

// NewService constructs the chat [Service].
//
// An empty apiKey is allowed: the endpoint stays mounted and reports itself
// unconfigured instead of the whole server refusing to start.
func NewService(apiKey, model string) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: upstreamTimeout},
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
		model:      model,
	}
}

// generateRequest mirrors the subset of the Gemini request schema we send.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse mirrors the subset of the Gemini response schema we read.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

/*
Ask forwards one message to the generation API and returns the reply text.

Parameters:
  - ctx: Context for the upstream call.
  - caller: The resolved identity, or nil for anonymous requests.
  - message: The user's message.

Returns:
  - The first candidate's text.
  - [apperr.ServiceUnavailable] when no API key is configured or the
    upstream call fails. Upstream error bodies are logged server-side via
    the wrapped cause, never forwarded to the client.
*/
func (service *Service) Ask(ctx context.Context, caller *sec.Identity, message string) (string, error) {
	if service.apiKey == "" {
		return "", apperr.ServiceUnavailable("Chat is not configured")
	}

	// ── 1. Prompt Assembly ────────────────────────────────────────────────

	prompt := message
	if caller != nil {
		prompt = fmt.Sprintf("You are the DocSafe assistant. The user's name is %s; address them by name.\n\n%s",
			caller.DisplayName, message)
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("chat_service_marshal_failed: %w", err)
	}

	// ── 2. Upstream Call ──────────────────────────────────────────────────

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", service.endpoint, service.model, service.apiKey)

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("chat_service_request_build_failed: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := service.httpClient.Do(httpRequest)
	if err != nil {
		return "", apperr.ServiceUnavailable("Chat is temporarily unavailable")
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxUpstreamResponse))
	if err != nil {
		return "", apperr.ServiceUnavailable("Chat is temporarily unavailable")
	}

	if httpResponse.StatusCode != http.StatusOK {
		return "", apperr.ServiceUnavailable("Chat is temporarily unavailable")
	}

	// ── 3. Reply Extraction ───────────────────────────────────────────────

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", apperr.ServiceUnavailable("Chat is temporarily unavailable")
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", apperr.ServiceUnavailable("Chat is temporarily unavailable")
	}

	return decoded.Candidates[0].Content.Parts[0].Text, nil
}
