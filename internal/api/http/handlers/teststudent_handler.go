package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/uofr/urcourses-teststudent/internal/api/dto"
	"github.com/uofr/urcourses-teststudent/internal/auth"
	"github.com/uofr/urcourses-teststudent/internal/domain"
	"github.com/uofr/urcourses-teststudent/internal/service"
	apperrors "github.com/uofr/urcourses-teststudent/pkg/util"
)

// TestStudentHandler exposes the test student lifecycle endpoints.
type TestStudentHandler struct {
	students   *service.TestStudentService
	enrolments *service.EnrolmentService
}

// NewTestStudentHandler constructs handler.
func NewTestStudentHandler(students *service.TestStudentService, enrolments *service.EnrolmentService) *TestStudentHandler {
	return &TestStudentHandler{students: students, enrolments: enrolments}
}

// Info handles GET /test-student.
func (h *TestStudentHandler) Info(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	info, err := h.students.Info(c.UserContext(), staff)
	if err != nil {
		return err
	}

	resp := dto.TestStudentInfoResponse{
		Exists:   info.Exists,
		Username: info.Username,
		Email:    info.Email,
	}
	if info.Exists {
		userID := info.UserID
		resp.UserID = &userID
		if info.DateCreated != nil {
			created := info.DateCreated.Format(time.RFC3339)
			resp.DateCreated = &created
		}
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create handles POST /test-student.
func (h *TestStudentHandler) Create(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	account, err := h.students.Create(c.UserContext(), staff)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.TestStudentCreatedResponse{
			UserID:   account.ID,
			Username: account.Username,
			Email:    account.Email,
		},
	})
}

// Reset handles POST /test-student/reset. A staff member without a test
// student account gets a no-op success; there is nothing to reset.
func (h *TestStudentHandler) Reset(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}

	notified, err := h.students.Reset(c.UserContext(), staff)
	if err != nil {
		if apperrors.HasCode(err, service.CodeNotFound) {
			return c.JSON(fiber.Map{"data": dto.TestStudentResetResponse{Status: "no_account"}})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.TestStudentResetResponse{Status: "reset", Notified: notified},
	})
}

// Enrol handles POST /test-student/enrolments/:courseid.
func (h *TestStudentHandler) Enrol(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}
	courseID, err := parseCourseID(c)
	if err != nil {
		return err
	}

	if err := h.enrolments.Enrol(c.UserContext(), staff, courseID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.EnrolmentStatusResponse{Status: "enrolled", CourseID: courseID},
	})
}

// Unenrol handles DELETE /test-student/enrolments/:courseid.
func (h *TestStudentHandler) Unenrol(c *fiber.Ctx) error {
	staff, err := requireStaff(c)
	if err != nil {
		return err
	}
	courseID, err := parseCourseID(c)
	if err != nil {
		return err
	}

	if err := h.enrolments.Unenrol(c.UserContext(), staff, courseID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.EnrolmentStatusResponse{Status: "unenrolled", CourseID: courseID},
	})
}

func requireStaff(c *fiber.Ctx) (*domain.StaffIdentity, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Staff, nil
}

func parseCourseID(c *fiber.Ctx) (int64, error) {
	courseID, err := strconv.ParseInt(c.Params("courseid"), 10, 64)
	if err != nil || courseID <= 0 {
		return 0, apperrors.NewValidationError("invalid course id", nil)
	}
	return courseID, nil
}
