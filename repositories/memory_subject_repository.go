package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"carewatch/models"
	"carewatch/utils"
)

// MemorySubjectRepository is the in-process twin of SubjectRepository, used
// in tests and when no database is configured.
type MemorySubjectRepository struct {
	mu       sync.RWMutex
	subjects map[string]models.Subject
}

func NewMemorySubjectRepository() *MemorySubjectRepository {
	return &MemorySubjectRepository{
		subjects: make(map[string]models.Subject),
	}
}

func (mr *MemorySubjectRepository) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	subject, ok := mr.subjects[id]
	if !ok {
		return nil, utils.NewSubjectNotFoundError()
	}
	return &subject, nil
}

func (mr *MemorySubjectRepository) Upsert(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		return utils.NewBadRequestError("subject ID is required")
	}

	mr.mu.Lock()
	defer mr.mu.Unlock()

	now := time.Now()
	subject.UpdatedAt = now
	if existing, ok := mr.subjects[subject.ID]; ok {
		subject.CreatedAt = existing.CreatedAt
	} else if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}

	mr.subjects[subject.ID] = *subject
	return nil
}

func (mr *MemorySubjectRepository) Delete(ctx context.Context, id string) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	if _, ok := mr.subjects[id]; !ok {
		return utils.NewSubjectNotFoundError()
	}
	delete(mr.subjects, id)
	return nil
}

func (mr *MemorySubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	subjects := make([]models.Subject, 0, len(mr.subjects))
	for _, subject := range mr.subjects {
		subjects = append(subjects, subject)
	}

	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i].Name < subjects[j].Name
	})

	return subjects, nil
}
