package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"localchat/internal/settings"
	"localchat/internal/transport/http/response"
)

type ConfigHandler struct {
	store *settings.Store
}

func NewConfigHandler(store *settings.Store) *ConfigHandler {
	return &ConfigHandler{store: store}
}

func (h *ConfigHandler) Get(c *gin.Context) {
	response.OK(c, h.store.Current())
}

func (h *ConfigHandler) Update(c *gin.Context) {
	var update settings.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	snap, err := h.store.Apply(c.Request.Context(), update)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrMemoryWindowRange),
			errors.Is(err, settings.ErrContextChunksRange),
			errors.Is(err, settings.ErrOllamaURLEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update settings failed")
		}
		return
	}

	response.OK(c, snap)
}
