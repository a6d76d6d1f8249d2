package service

import (
	"codementor_backend/internal/config"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func fakeChatAPI(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer auth: %q", r.Header.Get("Authorization"))
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestChat(t *testing.T) {
	srv := fakeChatAPI(t, "Use := only inside functions.")
	defer srv.Close()

	svc := NewAIService(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})
	reply, err := svc.Chat(context.Background(), "tutor", []AIChatMessage{{Role: "user", Content: "what is :=?"}})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "Use := only inside functions." {
		t.Errorf("reply = %q", reply)
	}
}

func TestChat_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := NewAIService(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key"})
	if _, err := svc.Chat(context.Background(), "", []AIChatMessage{{Role: "user", Content: "hi"}}); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestGenerateTestQuestions_StripsFences(t *testing.T) {
	questions := "```json\n" + `[
		{"id":"g1","type":"mcq","question":"Which declares a slice?","points":10,
		 "options":["[]int{}","int[]"],"correctAnswer":0},
		{"id":"g2","type":"multi-select","question":"Which are keywords?","points":10,
		 "options":["range","loop","defer"],"correctAnswers":[0,2]}
	]` + "\n```"

	srv := fakeChatAPI(t, questions)
	defer srv.Close()

	svc := NewAIService(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key"})
	got, err := svc.GenerateTestQuestions(context.Background(), "go", "beginner", 2)
	if err != nil {
		t.Fatalf("GenerateTestQuestions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d questions, want 2", len(got))
	}
	if got[0].ID() != "g1" || got[1].ID() != "g2" {
		t.Errorf("ids = %q, %q", got[0].ID(), got[1].ID())
	}
}

func TestGenerateTestQuestions_RejectsInvalid(t *testing.T) {
	// correctAnswer out of range must be refused, not saved.
	srv := fakeChatAPI(t, `[{"id":"g1","type":"mcq","question":"q","points":10,"options":["a","b"],"correctAnswer":5}]`)
	defer srv.Close()

	svc := NewAIService(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key"})
	if _, err := svc.GenerateTestQuestions(context.Background(), "go", "beginner", 1); err == nil {
		t.Error("expected out-of-range answer to be rejected")
	}
}
