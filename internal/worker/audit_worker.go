package worker

import (
	"github.com/uofr/urcourses-teststudent/internal/service"
)

// StartAuditWorker registers lifecycle audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
