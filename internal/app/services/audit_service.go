package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safatanc/gsalt-console/internal/app/errors"
	"github.com/safatanc/gsalt-console/internal/app/models"
	"gorm.io/gorm"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{
		db: db,
	}
}

// LogListAction records a delete issued from a list. failedIDs lists the ids
// the admin API refused.
func (s *AuditService) LogListAction(session *models.ConsoleSession, resource string, action models.ConsoleAction, ids, failedIDs []string) error {
	itemsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal item ids: %w", err)
	}

	var failedJSON *string
	if len(failedIDs) > 0 {
		jsonBytes, err := json.Marshal(failedIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal failed ids: %w", err)
		}
		strJSON := string(jsonBytes)
		failedJSON = &strJSON
	}

	auditLog := &models.ConsoleAuditLog{
		ID:        uuid.New(),
		ActorID:   session.ActorID,
		Actor:     session.Username,
		Resource:  resource,
		Action:    action,
		ItemIDs:   string(itemsJSON),
		FailedIDs: failedJSON,
		Succeeded: len(failedIDs) == 0,
		CreatedAt: time.Now(),
	}

	if err := s.db.Create(auditLog).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to create audit log")
	}

	return nil
}

// GetAuditLogs retrieves audit logs with pagination
func (s *AuditService) GetAuditLogs(pagination *models.PaginationRequest) (*models.Pagination[[]models.ConsoleAuditLog], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	var totalItems int64
	if err := s.db.Model(&models.ConsoleAuditLog{}).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count audit logs")
	}

	orderField := "created_at"
	if pagination.OrderField == "resource" || pagination.OrderField == "action" {
		orderField = pagination.OrderField
	}
	order := "DESC"
	if pagination.Order == "asc" {
		order = "ASC"
	}

	logs := []models.ConsoleAuditLog{}
	query := s.db.Order(orderField + " " + order).Limit(pagination.Limit)
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audit logs")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	if totalPages < 1 {
		totalPages = 1
	}

	result := &models.Pagination[[]models.ConsoleAuditLog]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      logs,
	}

	return result, nil
}
