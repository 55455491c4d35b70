package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)

		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama2", req.Model)
		assert.Equal(t, "hello", req.Prompt)
		assert.False(t, req.Stream)

		_ = json.NewEncoder(w).Encode(map[string]string{"response": "hi there"})
	}))
	defer server.Close()

	client := NewOllamaClient()
	reply, err := client.Generate(context.Background(), server.URL, "llama2", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
}

func TestGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewOllamaClient()
	_, err := client.Generate(context.Background(), server.URL, "missing", "hello")
	assert.ErrorIs(t, err, ErrInference)
}

func TestGenerateUnreachable(t *testing.T) {
	client := NewOllamaClient()
	_, err := client.Generate(context.Background(), "http://127.0.0.1:1", "llama2", "hello")
	assert.ErrorIs(t, err, ErrInference)
}

func TestGenerateMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewOllamaClient()
	_, err := client.Generate(context.Background(), server.URL, "llama2", "hello")
	assert.ErrorIs(t, err, ErrInference)
}

func TestGenerateEmptyResponseField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"response": ""})
	}))
	defer server.Close()

	client := NewOllamaClient()
	_, err := client.Generate(context.Background(), server.URL, "llama2", "hello")
	assert.ErrorIs(t, err, ErrInference)
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"models": []map[string]interface{}{
				{"name": "llama2", "size": 3825819519},
				{"name": "mistral", "size": 4109865159},
			},
		})
	}))
	defer server.Close()

	client := NewOllamaClient()
	models, err := client.ListModels(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "llama2", models[0].Name)
	assert.Equal(t, int64(3825819519), models[0].Size)
}

func TestListModelsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOllamaClient()
	_, err := client.ListModels(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrInference)
}
