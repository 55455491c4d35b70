package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"localchat/internal/ai"
	"localchat/internal/settings"
	"localchat/internal/transport/http/response"
)

type ModelsHandler struct {
	ollama *ai.OllamaClient
	store  *settings.Store
}

func NewModelsHandler(ollama *ai.OllamaClient, store *settings.Store) *ModelsHandler {
	return &ModelsHandler{ollama: ollama, store: store}
}

// List proxies the inference server's installed-model listing.
func (h *ModelsHandler) List(c *gin.Context) {
	snap := h.store.Current()
	models, err := h.ollama.ListModels(c.Request.Context(), snap.OllamaAPIURL)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeInferenceUnavailable, "inference server unavailable")
		return
	}

	response.OK(c, gin.H{"models": models})
}
