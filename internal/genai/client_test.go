package genai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
	"github.com/fivejjs/gemini3-sample-chronos/internal/imaging"
)

type staticCreds string

func (s staticCreds) GeminiAPIKey(context.Context) (string, error) {
	return string(s), nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, key string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(Options{
		BaseURL:     srv.URL,
		HTTPClient:  srv.Client(),
		Logger:      zerolog.New(io.Discard),
		Credentials: staticCreds(key),
	})
	return client, srv
}

const testPayload = imaging.Payload("data:image/jpeg;base64,aW1hZ2VieXRlcw==")

func TestTransformReturnsFirstImagePart(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key query = %q, want test-key", r.URL.Query().Get("key"))
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": "here is your image"},
						{"inlineData": map[string]any{"mimeType": "image/png", "data": "cmVzdWx0Ynl0ZXM="}},
						{"inlineData": map[string]any{"mimeType": "image/png", "data": "c2Vjb25k"}},
					},
				},
			}},
		})
	}, "test-key")

	result, err := client.Transform(context.Background(), testPayload, "make it viking")
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	if result != "data:image/png;base64,cmVzdWx0Ynl0ZXM=" {
		t.Fatalf("result = %q", result)
	}
	if gotPath != "/models/"+EditingModel+":generateContent" {
		t.Fatalf("path = %q", gotPath)
	}

	contents := gotBody["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	if text := parts[0].(map[string]any)["text"]; text != "make it viking" {
		t.Fatalf("instruction = %v", text)
	}
	inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
	if inline["mimeType"] != "image/jpeg" {
		t.Fatalf("outbound mime = %v, want image/jpeg", inline["mimeType"])
	}
	if inline["data"] != "aW1hZ2VieXRlcw==" {
		t.Fatalf("outbound data kept its prefix: %v", inline["data"])
	}
}

func TestTransformNoImageProduced(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "sorry, words only"}},
				},
			}},
		})
	}, "test-key")

	_, err := client.Transform(context.Background(), testPayload, "prompt")
	if !errors.Is(err, domain.ErrNoImageProduced) {
		t.Fatalf("err = %v, want ErrNoImageProduced", err)
	}
}

func TestTransformMissingCredential(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "")

	_, err := client.Transform(context.Background(), testPayload, "prompt")
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
	if called {
		t.Fatal("request went out without a credential")
	}
}

func TestTransformRemoteServiceError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "quota exhausted"},
		})
	}, "test-key")

	_, err := client.Transform(context.Background(), testPayload, "prompt")
	if !errors.Is(err, domain.ErrRemoteService) {
		t.Fatalf("err = %v, want ErrRemoteService", err)
	}
}

func TestAnalyzeReturnsText(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "A portrait of a person "}, {"text": "in Victorian dress."}},
				},
			}},
		})
	}, "test-key")

	text, err := client.Analyze(context.Background(), testPayload)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if text != "A portrait of a person in Victorian dress." {
		t.Fatalf("text = %q", text)
	}
	if gotPath != "/models/"+AnalysisModel+":generateContent" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestAnalyzeEmptyResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}, "test-key")

	_, err := client.Analyze(context.Background(), testPayload)
	if !errors.Is(err, domain.ErrEmptyAnalysis) {
		t.Fatalf("err = %v, want ErrEmptyAnalysis", err)
	}
}
