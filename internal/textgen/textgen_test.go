package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"compliance-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGenerator struct {
	results []error
	text    string
	calls   int
}

func (s *scriptedGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.results) && s.results[i] != nil {
		return "", s.results[i]
	}
	return s.text, nil
}

func TestGenAIProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req genAIRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 200, req.MaxTokens)

		json.NewEncoder(w).Encode(genAIResponse{Text: "  Encaja por sector y tamaño.  "})
	}))
	defer server.Close()

	text, err := NewGenAIProvider(server.URL+"/", "secret", nil).Generate(context.Background(), "explica", 200)

	require.NoError(t, err)
	assert.Equal(t, "Encaja por sector y tamaño.", text)
}

func TestGenAIProvider_StatusErrors(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusServiceUnavailable, true},
		{http.StatusTooManyRequests, true},
		{http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewGenAIProvider(server.URL, "", nil).Generate(context.Background(), "p", 10)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.Code)
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestGenAIProvider_EmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"   "}`))
	}))
	defer server.Close()

	_, err := NewGenAIProvider(server.URL, "", nil).Generate(context.Background(), "p", 10)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Resumen breve."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	text, err := NewOpenAIProvider("key", "", server.URL+"/v1").Generate(context.Background(), "explica", 100)

	require.NoError(t, err)
	assert.Equal(t, "Resumen breve.", text)
}

func TestOpenAIProvider_RateLimitIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer server.Close()

	_, err := NewOpenAIProvider("key", "gpt-4o", server.URL+"/v1").Generate(context.Background(), "p", 10)

	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}

func TestRetry(t *testing.T) {
	unavailable := &StatusError{Provider: "fake", Code: http.StatusServiceUnavailable}
	badRequest := &StatusError{Provider: "fake", Code: http.StatusBadRequest}

	tests := []struct {
		name       string
		results    []error
		maxRetries int
		wantErr    error
		wantCalls  int
	}{
		{name: "first attempt succeeds", wantCalls: 1, maxRetries: 2},
		{name: "recovers after 503", results: []error{unavailable, unavailable}, maxRetries: 2, wantCalls: 3},
		{name: "gives up after retries", results: []error{unavailable, unavailable, unavailable}, maxRetries: 2, wantErr: unavailable, wantCalls: 3},
		{name: "does not retry 400", results: []error{badRequest}, maxRetries: 2, wantErr: badRequest, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &scriptedGenerator{results: tt.results, text: "ok"}

			text, err := NewRetry(gen, tt.maxRetries, time.Millisecond).Generate(context.Background(), "p", 10)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "ok", text)
			}
			assert.Equal(t, tt.wantCalls, gen.calls)
		})
	}
}

func TestRetry_StopsOnCancel(t *testing.T) {
	gen := &scriptedGenerator{results: []error{&StatusError{Code: http.StatusTooManyRequests}, nil}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRetry(gen, 3, time.Hour).Generate(ctx, "p", 10)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, gen.calls)
}

func TestFallback(t *testing.T) {
	primary := &scriptedGenerator{results: []error{errors.New("boom")}}
	secondary := &scriptedGenerator{text: "desde genai"}

	fb := NewFallback(logger.NewTestLogger(t),
		Provider{Name: ProviderOpenAI, Generator: primary},
		Provider{Name: ProviderGenAI, Generator: secondary},
	)

	text, provider, err := fb.GenerateWithProvider(context.Background(), "p", 10)

	require.NoError(t, err)
	assert.Equal(t, "desde genai", text)
	assert.Equal(t, ProviderGenAI, provider)
	assert.Equal(t, 1, primary.calls)
}

func TestFallback_AllFail(t *testing.T) {
	first := errors.New("openai down")
	second := errors.New("genai down")

	fb := NewFallback(logger.NewNoOpLogger(),
		Provider{Name: ProviderOpenAI, Generator: &scriptedGenerator{results: []error{first}}},
		Provider{Name: ProviderGenAI, Generator: &scriptedGenerator{results: []error{second}}},
	)

	_, err := fb.Generate(context.Background(), "p", 10)

	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}

func TestFallback_NoProviders(t *testing.T) {
	_, err := NewFallback(logger.NewNoOpLogger()).Generate(context.Background(), "p", 10)
	assert.ErrorIs(t, err, ErrNoProviders)
}
