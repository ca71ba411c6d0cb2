package services

import (
	"context"

	"carewatch/interfaces"
	"carewatch/models"
	"carewatch/utils"

	"github.com/google/uuid"
)

// SubjectService manages the senior profiles the orchestrator resolves
// emergency contacts from.
type SubjectService struct {
	subjectStore interfaces.SubjectStore
	validator    *utils.ValidationService
}

func NewSubjectService(subjectStore interfaces.SubjectStore) *SubjectService {
	return &SubjectService{
		subjectStore: subjectStore,
		validator:    utils.NewValidationService(),
	}
}

func (ss *SubjectService) CreateSubject(ctx context.Context, req models.CreateSubjectRequest) (*models.Subject, error) {
	if validationErrors := ss.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, utils.NewBadRequestError(validationErrors[0].Message)
	}

	if utils.NormalizePhoneNumber(req.ContactPhone) == "" {
		return nil, utils.NewBadRequestError("contact phone is not a usable phone number")
	}

	subject := &models.Subject{
		ID:              uuid.New().String(),
		Name:            req.Name,
		ContactName:     req.ContactName,
		ContactPhone:    req.ContactPhone,
		EmergencyNumber: req.EmergencyNumber,
	}

	if err := ss.subjectStore.Upsert(ctx, subject); err != nil {
		return nil, err
	}

	return subject, nil
}

func (ss *SubjectService) UpdateSubject(ctx context.Context, id string, req models.UpdateSubjectRequest) (*models.Subject, error) {
	if validationErrors := ss.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return nil, utils.NewBadRequestError(validationErrors[0].Message)
	}

	subject, err := ss.subjectStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		subject.Name = req.Name
	}
	if req.ContactName != "" {
		subject.ContactName = req.ContactName
	}
	if req.ContactPhone != "" {
		if utils.NormalizePhoneNumber(req.ContactPhone) == "" {
			return nil, utils.NewBadRequestError("contact phone is not a usable phone number")
		}
		subject.ContactPhone = req.ContactPhone
	}
	if req.EmergencyNumber != "" {
		subject.EmergencyNumber = req.EmergencyNumber
	}

	if err := ss.subjectStore.Upsert(ctx, subject); err != nil {
		return nil, err
	}

	return subject, nil
}

func (ss *SubjectService) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	return ss.subjectStore.GetByID(ctx, id)
}

func (ss *SubjectService) DeleteSubject(ctx context.Context, id string) error {
	return ss.subjectStore.Delete(ctx, id)
}

func (ss *SubjectService) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return ss.subjectStore.List(ctx)
}
