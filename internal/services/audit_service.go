package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"clario/internal/logger"
	"clario/internal/models"
)

// auditService records user-initiated mutations.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log writes an audit entry. Failures are logged and swallowed: auditing
// must never fail the mutation it describes.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}

	if len(changes) > 0 {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Warnw("failed to marshal audit changes", "error", err)
		} else {
			entry.Changes = string(data)
		}
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Warnw("failed to write audit log", "error", err, "action", action)
	}
}
