package handlers

import (
	"net/http"

	"github.com/SscSPs/user_accounts_app/internal/apperrors"
	portssvc "github.com/SscSPs/user_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/user_accounts_app/internal/dto"
	"github.com/SscSPs/user_accounts_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests about the authenticated user.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// currentUser godoc
// @Summary Get current user
// @Description Returns the authenticated user's profile.
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/current-user [get]
func (h *userHandler) currentUser(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, apperrors.NewAppError(http.StatusUnauthorized, "Unauthorized request", apperrors.ErrUnauthorized))
		return
	}

	user, err := h.userService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, dto.ToUserResponse(user), "Current user fetched successfully")
}
