package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// home godoc
// @Summary Health check
// @Description Returns OK when the service is up.
// @Tags home
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func home(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
