package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"github.com/ArowuTest/surespace-functions/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestImport(t *testing.T) {
	profiles := memory.NewUserProfileRepository()
	importer := NewProfileImporter(profiles, zap.NewNop())

	csv := "User ID,Full Name,Profile Pic,Push Token\n" +
		"u1,Alice,https://img/a.png,ExponentPushToken[a]\n" +
		",Nobody,,\n" +
		"u2,Bob\n"

	result, err := importer.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.Upserted)
	assert.Len(t, result.Errors, 1)

	got, err := profiles.FindByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].FullName)
	assert.Equal(t, "ExponentPushToken[a]", got[0].PushToken)

	got, err = profiles.FindByUserID(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].PushToken)
}

func TestImport_MissingUserColumn(t *testing.T) {
	importer := NewProfileImporter(memory.NewUserProfileRepository(), zap.NewNop())
	_, err := importer.Import(context.Background(), strings.NewReader("name,token\nA,B\n"))
	assert.ErrorIs(t, err, ErrUserIDColumnMissing)
}

type failingProfiles struct{}

func (failingProfiles) FindByUserID(context.Context, string) ([]*models.UserProfile, error) {
	return nil, nil
}

func (failingProfiles) Upsert(context.Context, *models.UserProfile) error {
	return errors.New("write failed")
}

func TestImport_UpsertFailureIsReported(t *testing.T) {
	importer := NewProfileImporter(failingProfiles{}, zap.NewNop())
	result, err := importer.Import(context.Background(), strings.NewReader("uid\nu1\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Upserted)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "write failed")
}
