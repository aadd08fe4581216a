package handlers

import (
	"errors"

	"userhub/internal/config"
	"userhub/internal/core/services"
	"userhub/internal/pkg/pagination"
	"userhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserDetailHandler handles profile endpoints
type UserDetailHandler struct {
	detailService *services.UserDetailService
	cfg           *config.Config
}

// NewUserDetailHandler creates a new user detail handler
func NewUserDetailHandler(detailService *services.UserDetailService, cfg *config.Config) *UserDetailHandler {
	return &UserDetailHandler{
		detailService: detailService,
		cfg:           cfg,
	}
}

// targetUserID resolves the target of a profile operation: the :id path
// parameter, or the acting user for the /me route
func targetUserID(c *fiber.Ctx) string {
	if id := c.Params("id"); id != "" {
		return id
	}
	actorID, _ := c.Locals("userID").(string)
	return actorID
}

// GetUserDetail handles fetching a profile
// @Summary Get user detail
// @Description Get a profile with the owner's public user fields embedded
// @Tags UserDetails
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string false "Target user ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /user-details/{id} [get]
func (h *UserDetailHandler) GetUserDetail(c *fiber.Ctx) error {
	userID := targetUserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	detail, err := h.detailService.GetDetail(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrDetailNotFound) {
			return response.NotFound(c, "User detail not found")
		}
		return response.ServerError(c, "Failed to get user detail", err, h.cfg.IsDev())
	}

	return response.Success(c, "User detail retrieved successfully", fiber.Map{
		"user_detail": detail,
	})
}

// UpdateUserDetail handles updating a profile (owner or admin)
// @Summary Update user detail
// @Description Update profile fields; only the owner or an admin may update
// @Tags UserDetails
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Target user ID"
// @Param body body services.UpdateDetailInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /user-details/{id} [put]
func (h *UserDetailHandler) UpdateUserDetail(c *fiber.Ctx) error {
	userID := targetUserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	actorID, _ := c.Locals("userID").(string)
	actorRole, _ := c.Locals("role").(string)

	var input services.UpdateDetailInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	detail, err := h.detailService.UpdateDetail(c.Context(), actorID, actorRole, userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDetailNotFound):
			return response.NotFound(c, "User detail not found")
		case errors.Is(err, services.ErrNotOwner):
			return response.Forbidden(c, "You are not authorized to update this user detail")
		default:
			return response.ServerError(c, "Failed to update user detail", err, h.cfg.IsDev())
		}
	}

	return response.Success(c, "User detail updated successfully", fiber.Map{
		"user_detail": detail,
	})
}

// DeleteUserDetail handles deleting a profile (admin only)
// @Summary Delete user detail
// @Description Delete a profile (admin only)
// @Tags UserDetails
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Target user ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /user-details/{id} [delete]
func (h *UserDetailHandler) DeleteUserDetail(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return response.BadRequest(c, "User ID is required")
	}

	if err := h.detailService.DeleteDetail(c.Context(), userID); err != nil {
		if errors.Is(err, services.ErrDetailNotFound) {
			return response.NotFound(c, "User detail not found")
		}
		return response.ServerError(c, "Failed to delete user detail", err, h.cfg.IsDev())
	}

	return response.Success(c, "User detail deleted successfully", nil)
}

// ListUserDetails handles listing all profiles (admin only)
// @Summary List user details
// @Description Get a paginated list of all profiles (admin only)
// @Tags UserDetails
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /user-details [get]
func (h *UserDetailHandler) ListUserDetails(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	details, total, err := h.detailService.ListDetails(c.Context(), params)
	if err != nil {
		return response.ServerError(c, "Failed to list user details", err, h.cfg.IsDev())
	}

	return response.Success(c, "User details retrieved successfully", pagination.NewResponse(details, params, total))
}
