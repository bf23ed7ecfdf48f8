package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/scribe/pkg/api"
)

type ConfigHandler struct {
	writer Writer
}

func NewConfigHandler(w Writer) *ConfigHandler {
	return &ConfigHandler{writer: w}
}

// Get returns the effective routing configuration.
//
// GET /v1/config
func (h *ConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, api.ConfigResponse{
		Provider:           h.writer.Provider(),
		ConfiguredProvider: h.writer.ConfiguredProvider(),
		Model:              h.writer.Model(),
		MockMode:           h.writer.MockMode(),
	})
}
