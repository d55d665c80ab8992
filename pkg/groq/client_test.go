package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// completionBody builds a chat-completions response carrying the given
// message content.
func completionBody(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(body)
}

func newClient(baseURL string) *Client {
	return NewClient(Config{APIKey: "test-key", Model: "test-model", BaseURL: baseURL})
}

func TestChatJSONHappyPath(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		fmt.Fprint(w, completionBody("```json\n{\"score\": 85}\n```"))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).ChatJSON(context.Background(), "system prompt", "user prompt", 0.7, 1500)
	if err != nil {
		t.Fatalf("ChatJSON: %v", err)
	}
	if got != `{"score": 85}` {
		t.Errorf("content = %q, want extracted JSON", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.Model != "test-model" || len(gotReq.Messages) != 2 {
		t.Errorf("request = %+v, want model and two messages", gotReq)
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("message roles = %q, %q", gotReq.Messages[0].Role, gotReq.Messages[1].Role)
	}
}

func TestChatJSONAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": "rate limit exceeded"}`)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).ChatJSON(context.Background(), "s", "u", 0.7, 100)
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("error %q does not surface the upstream body", err)
	}
}

func TestChatJSONNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).ChatJSON(context.Background(), "s", "u", 0.7, 100)
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestChatJSONEmptyContent(t *testing.T) {
	// An empty completion is not an error; it degrades to an empty object so
	// callers with per-field defaults can still proceed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody("  \n"))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).ChatJSON(context.Background(), "s", "u", 0.3, 100)
	if err != nil {
		t.Fatalf("ChatJSON: %v", err)
	}
	if got != "{}" {
		t.Errorf("content = %q, want empty object", got)
	}
}

func TestChatJSONNonJSONContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody("Sorry, I cannot answer that."))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).ChatJSON(context.Background(), "s", "u", 0.7, 100)
	if err == nil {
		t.Fatal("expected error when no JSON object is present")
	}
}
