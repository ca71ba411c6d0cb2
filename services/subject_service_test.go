package services

import (
	"context"
	"testing"

	"carewatch/models"
	"carewatch/repositories"
	"carewatch/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectLifecycle(t *testing.T) {
	svc := NewSubjectService(repositories.NewMemorySubjectRepository())
	ctx := context.Background()

	created, err := svc.CreateSubject(ctx, models.CreateSubjectRequest{
		Name:         "Maria Cruz",
		ContactName:  "Juan Cruz",
		ContactPhone: "+63 912-345-6789",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	fetched, err := svc.GetSubject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Cruz", fetched.Name)

	updated, err := svc.UpdateSubject(ctx, created.ID, models.UpdateSubjectRequest{
		EmergencyNumber: "+63822280000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Cruz", updated.Name)
	assert.Equal(t, "+63822280000", updated.EmergencyNumber)

	subjects, err := svc.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Len(t, subjects, 1)

	require.NoError(t, svc.DeleteSubject(ctx, created.ID))

	_, err = svc.GetSubject(ctx, created.ID)
	assert.True(t, utils.IsNotFound(err))
}

func TestCreateSubjectRejectsUnusablePhone(t *testing.T) {
	svc := NewSubjectService(repositories.NewMemorySubjectRepository())

	_, err := svc.CreateSubject(context.Background(), models.CreateSubjectRequest{
		Name:         "Maria Cruz",
		ContactName:  "Juan Cruz",
		ContactPhone: "no phone",
	})
	assert.Error(t, err)
}

func TestUpdateSubjectUnknownID(t *testing.T) {
	svc := NewSubjectService(repositories.NewMemorySubjectRepository())

	_, err := svc.UpdateSubject(context.Background(), "missing", models.UpdateSubjectRequest{Name: "New Name"})
	assert.True(t, utils.IsNotFound(err))
}
