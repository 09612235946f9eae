package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/uofr/urcourses-teststudent/internal/api/dto"
	"github.com/uofr/urcourses-teststudent/internal/service"
	apperrors "github.com/uofr/urcourses-teststudent/pkg/util"
)

// StaffHandler exposes the staff login endpoint.
type StaffHandler struct {
	authService *service.AuthService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService) *StaffHandler {
	return &StaffHandler{authService: authService}
}

// Login handles POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	staff, token, exp, err := h.authService.LoginStaff(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"staff": dto.StaffResponse{
				ID:        staff.ID,
				Username:  staff.Username,
				Firstname: staff.Firstname,
				Lastname:  staff.Lastname,
				Email:     staff.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}
