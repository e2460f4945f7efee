package project_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/repository"
	"github.com/ysenarath/textflow/internal/repository/mocks"
)

func newService(t *testing.T) (*project.Service, *mocks.ProjectRepository, *mocks.LabelRepository) {
	t.Helper()
	projects := new(mocks.ProjectRepository)
	labels := new(mocks.LabelRepository)
	return project.NewService(projects, labels, slog.Default()), projects, labels
}

func TestCreateDefaultsRedundancy(t *testing.T) {
	svc, projects, _ := newService(t)
	projects.On("Create", mock.Anything, mock.AnythingOfType("*project.Project")).
		Return(nil)

	proj, err := svc.Create(context.Background(), project.CreateRequest{
		Name: "ner",
		Type: project.TypeSequenceLabeling,
	})
	require.NoError(t, err)
	require.Equal(t, 1, proj.Redundancy)
}

func TestCreateValidatesInput(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Create(context.Background(), project.CreateRequest{Name: " ", Type: project.TypeSequenceLabeling})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = svc.Create(context.Background(), project.CreateRequest{Name: "x", Type: project.Type("bogus")})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = svc.Create(context.Background(), project.CreateRequest{Name: "x", Type: project.TypeDocumentClassification, Redundancy: -1})
	require.ErrorIs(t, err, project.ErrInvalidInput)
}

func TestGetNotFound(t *testing.T) {
	svc, projects, _ := newService(t)
	projects.On("Get", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

	_, err := svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestCreateLabelValidatesValue(t *testing.T) {
	svc, _, _ := newService(t)

	for _, value := range []string{"", "has space", "ünïcode", "semi;colon"} {
		_, err := svc.CreateLabel(context.Background(), project.CreateLabelRequest{ProjectID: 1, Value: value})
		require.ErrorIs(t, err, project.ErrInvalidInput, "value %q", value)
	}
}

func TestCreateLabelDefaultsDisplayText(t *testing.T) {
	svc, _, labels := newService(t)
	labels.On("Create", mock.Anything, mock.AnythingOfType("*project.Label")).Return(nil)

	label, err := svc.CreateLabel(context.Background(), project.CreateLabelRequest{ProjectID: 1, Value: "PER"})
	require.NoError(t, err)
	require.Equal(t, "PER", label.Label)
}

func TestCreateLabelDuplicateValue(t *testing.T) {
	svc, _, labels := newService(t)
	labels.On("Create", mock.Anything, mock.AnythingOfType("*project.Label")).
		Return(repository.ErrConflict)

	_, err := svc.CreateLabel(context.Background(), project.CreateLabelRequest{ProjectID: 1, Value: "PER"})
	require.ErrorIs(t, err, project.ErrInvalidInput)
}
