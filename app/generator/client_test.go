package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestClient(serverURL string) *Client {
	apiConfig := openai.DefaultConfig("test-key")
	apiConfig.BaseURL = serverURL

	return &Client{
		api:   openai.NewClientWithConfig(apiConfig),
		model: "test-model",
	}
}

func TestClient_Chat(t *testing.T) {
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "generated reply"}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	reply, err := client.Chat(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if reply != "generated reply" {
		t.Errorf("Expected 'generated reply', got '%s'", reply)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "system text" {
		t.Errorf("Unexpected system message: %+v", gotReq.Messages[0])
	}
	if gotReq.Messages[1].Role != "user" || gotReq.Messages[1].Content != "user text" {
		t.Errorf("Unexpected user message: %+v", gotReq.Messages[1])
	}
}

func TestClient_Chat_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Chat(context.Background(), "s", "u"); err == nil {
		t.Error("Expected error when response has no choices")
	}
}

func TestClient_Chat_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Chat(context.Background(), "s", "u"); err == nil {
		t.Error("Expected error on upstream failure")
	}
}
