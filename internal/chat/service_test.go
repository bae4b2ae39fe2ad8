// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsafe-app/docsafe/internal/platform/apperr"
	"github.com/docsafe-app/docsafe/internal/platform/sec"
)

// newUpstream fakes the generation API and captures the last prompt.
func newUpstream(t *testing.T, status int, reply string) (*httptest.Server, *string) {
	t.Helper()
	var lastPrompt string

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)

		var decoded generateRequest
		require.NoError(t, json.Unmarshal(body, &decoded))
		if len(decoded.Contents) > 0 && len(decoded.Contents[0].Parts) > 0 {
			lastPrompt = decoded.Contents[0].Parts[0].Text
		}

		writer.WriteHeader(status)
		_ = json.NewEncoder(writer).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": reply}}}},
			},
		})
	}))

	return server, &lastPrompt
}

func newTestService(endpoint string) *Service {
	service := NewService("test-key", "gemini-1.5-flash")
	service.endpoint = endpoint
	return service
}

/*
TestService_Ask verifies the pass-through and the personalization rules.
*/
func TestService_Ask(t *testing.T) {
	upstream, lastPrompt := newUpstream(t, http.StatusOK, "Hello there")
	defer upstream.Close()

	service := newTestService(upstream.URL)
	ctx := context.Background()

	// 1. Anonymous: prompt is the raw message
	reply, err := service.Ask(ctx, nil, "What is DocSafe?")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply)
	assert.Equal(t, "What is DocSafe?", *lastPrompt)

	// 2. Authenticated: prompt carries the display name
	caller := &sec.Identity{UserID: 1, DisplayName: "Thandi", Selector: "sel"}
	_, err = service.Ask(ctx, caller, "What is DocSafe?")
	require.NoError(t, err)
	assert.Contains(t, *lastPrompt, "Thandi")
	assert.Contains(t, *lastPrompt, "What is DocSafe?")
}

/*
TestService_Ask_Failures covers the unconfigured and upstream-error paths.
*/
func TestService_Ask_Failures(t *testing.T) {
	ctx := context.Background()

	// 1. No API key configured
	unconfigured := NewService("", "gemini-1.5-flash")
	_, err := unconfigured.Ask(ctx, nil, "hi")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "SERVICE_UNAVAILABLE", ae.Code)

	// 2. Upstream 5xx maps to the same generic unavailability
	upstream, _ := newUpstream(t, http.StatusInternalServerError, "")
	defer upstream.Close()

	service := newTestService(upstream.URL)
	_, err = service.Ask(ctx, nil, "hi")
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "SERVICE_UNAVAILABLE", ae.Code)
}
