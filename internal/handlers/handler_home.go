package handlers

import (
	"net/http"

	"github.com/SscSPs/user_accounts_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// getHealth godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /health [get]
func getHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(http.StatusOK, gin.H{"status": "ok"}, "Service is healthy"))
}
