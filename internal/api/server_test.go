package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ysenarath/textflow/internal/domain/annotation"
	"github.com/ysenarath/textflow/internal/domain/document"
	"github.com/ysenarath/textflow/internal/domain/job"
	"github.com/ysenarath/textflow/internal/domain/project"
	"github.com/ysenarath/textflow/internal/domain/scheduler"
	"github.com/ysenarath/textflow/internal/domain/status"
	"github.com/ysenarath/textflow/internal/domain/user"
	"github.com/ysenarath/textflow/internal/jobs"
	"github.com/ysenarath/textflow/internal/repository"
	"github.com/ysenarath/textflow/internal/repository/mocks"
)

type testServer struct {
	projects    *mocks.ProjectRepository
	labels      *mocks.LabelRepository
	documents   *mocks.DocumentRepository
	assignments *mocks.AssignmentRepository
	sets        *mocks.AnnotationSetRepository
	jobStore    *mocks.JobRepository
	runner      *jobs.Runner
	handler     http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.Default()
	ts := &testServer{
		projects:    new(mocks.ProjectRepository),
		labels:      new(mocks.LabelRepository),
		documents:   new(mocks.DocumentRepository),
		assignments: new(mocks.AssignmentRepository),
		sets:        new(mocks.AnnotationSetRepository),
		jobStore:    new(mocks.JobRepository),
	}
	ts.runner = jobs.NewRunner(ts.jobStore, logger)

	services := Services{
		Projects:    project.NewService(ts.projects, ts.labels, logger),
		Annotations: annotation.NewService(ts.sets, ts.documents, ts.assignments, ts.labels, logger),
		Scheduler:   scheduler.NewService(ts.projects, ts.documents, ts.assignments, ts.sets, logger),
		Status:      status.NewService(ts.projects, ts.documents, ts.sets, logger),
	}
	ts.handler = NewRouter(services, ts.assignments, ts.jobStore, ts.runner, ts.documents, logger)
	return ts
}

func (ts *testServer) request(t *testing.T, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) assignRole(userID, projectID int64, role user.Role) {
	ts.assignments.On("Get", mock.Anything, userID, projectID).
		Return(&user.Assignment{UserID: userID, ProjectID: projectID, Role: role}, nil)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "success", envelope.Status)
	return envelope.Data
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.request(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestMissingUserHeader(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.request(t, http.MethodGet, "/api/projects/10/next", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNextDocument(t *testing.T) {
	ts := newTestServer(t)
	ts.assignRole(1, 10, user.RoleDefault)
	ts.projects.On("Get", mock.Anything, int64(10)).
		Return(&project.Project{ID: 10, Redundancy: 1}, nil)
	ts.sets.On("CountCompletedByDocument", mock.Anything, int64(10)).
		Return(map[int64]int{}, nil)
	ts.sets.On("ListByUserProject", mock.Anything, int64(1), int64(10)).
		Return([]annotation.Set{}, nil)
	ts.documents.On("List", mock.Anything, int64(10)).
		Return([]document.Document{{ID: 100, ProjectID: 10, Text: "hello"}}, nil)

	rec := ts.request(t, http.MethodGet, "/api/projects/10/next", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	doc := data["document"].(map[string]any)
	require.Equal(t, float64(100), doc["id"])
}

func TestNextDocumentCaughtUp(t *testing.T) {
	ts := newTestServer(t)
	ts.assignments.On("Get", mock.Anything, int64(1), int64(10)).
		Return(nil, repository.ErrNotFound)

	rec := ts.request(t, http.MethodGet, "/api/projects/10/next", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	require.Nil(t, data["document"])
}

func TestStatusRequiresManagerForProjectReport(t *testing.T) {
	ts := newTestServer(t)
	ts.assignRole(1, 10, user.RoleDefault)

	rec := ts.request(t, http.MethodGet, "/api/projects/10/status", "1", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStatusOwnUserReport(t *testing.T) {
	ts := newTestServer(t)
	// A default-role user can always read their own report.
	ts.documents.On("List", mock.Anything, int64(10)).
		Return([]document.Document{{ID: 1}, {ID: 2}}, nil)
	ts.sets.On("ListByUserProject", mock.Anything, int64(1), int64(10)).
		Return([]annotation.Set{{DocumentID: 1, Completed: true}}, nil)

	rec := ts.request(t, http.MethodGet, "/api/projects/10/status?user=1", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	require.Equal(t, float64(1), data["num_completed"])
	require.Equal(t, float64(2), data["num_documents"])
	require.Equal(t, float64(50), data["progress"])
}

func TestStatusOtherUserReportRequiresManager(t *testing.T) {
	ts := newTestServer(t)
	ts.assignRole(1, 10, user.RoleDefault)

	rec := ts.request(t, http.MethodGet, "/api/projects/10/status?user=2", "1", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStatusProjectReportForManager(t *testing.T) {
	ts := newTestServer(t)
	ts.assignRole(1, 10, user.RoleManager)
	ts.projects.On("Get", mock.Anything, int64(10)).
		Return(&project.Project{ID: 10, Redundancy: 1}, nil)
	ts.documents.On("List", mock.Anything, int64(10)).
		Return([]document.Document{{ID: 1}}, nil)
	ts.sets.On("ListByProject", mock.Anything, int64(10)).
		Return([]annotation.Set{{UserID: 1, DocumentID: 1, Completed: true}}, nil)

	rec := ts.request(t, http.MethodGet, "/api/projects/10/status", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	require.Equal(t, float64(100), data["progress"])
}

func TestAgreementScores(t *testing.T) {
	ts := newTestServer(t)
	ts.assignRole(1, 10, user.RoleAdmin)
	ts.projects.On("Get", mock.Anything, int64(10)).
		Return(&project.Project{ID: 10, Type: project.TypeDocumentClassification, Redundancy: 2}, nil)

	doc := document.Document{ID: 1, ProjectID: 10, Text: "text"}
	bundles := []annotation.SetBundle{
		{Set: annotation.Set{UserID: 1, DocumentID: 1, Completed: true}, Coder: "alice", Document: doc,
			Annotations: []annotation.Annotation{{Labels: []project.Label{{Value: "spam"}}}}},
		{Set: annotation.Set{UserID: 2, DocumentID: 1, Completed: true}, Coder: "bob", Document: doc,
			Annotations: []annotation.Annotation{{Labels: []project.Label{{Value: "spam"}}}}},
	}
	ts.sets.On("ListCompletedBundles", mock.Anything, int64(10)).Return(bundles, nil)

	rec := ts.request(t, http.MethodGet, "/api/projects/10/agreement?metric=percentage", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	require.Equal(t, "percentage", data["metric"])
	scores := data["scores"].([]any)
	require.Len(t, scores, 3)
	first := scores[0].(map[string]any)
	require.Equal(t, "alice & bob", first["annotators"])
	require.Equal(t, float64(1), first["agreement"])
}

func TestAgreementRequiresManager(t *testing.T) {
	ts := newTestServer(t)
	ts.assignRole(1, 10, user.RoleDefault)

	rec := ts.request(t, http.MethodGet, "/api/projects/10/agreement", "1", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAgreementUnknownMetric(t *testing.T) {
	ts := newTestServer(t)
	ts.assignRole(1, 10, user.RoleManager)
	ts.projects.On("Get", mock.Anything, int64(10)).
		Return(&project.Project{ID: 10, Type: project.TypeDocumentClassification}, nil)
	ts.sets.On("ListCompletedBundles", mock.Anything, int64(10)).
		Return([]annotation.SetBundle{}, nil)

	rec := ts.request(t, http.MethodGet, "/api/projects/10/agreement?metric=bogus", "1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDatasetDownload(t *testing.T) {
	ts := newTestServer(t)
	ts.assignRole(1, 10, user.RoleManager)
	ts.projects.On("Get", mock.Anything, int64(10)).
		Return(&project.Project{ID: 10, Type: project.TypeSequenceLabeling, Redundancy: 1}, nil)

	doc := document.Document{ID: 1, ProjectID: 10, Text: "Barack Obama"}
	bundles := []annotation.SetBundle{
		{Set: annotation.Set{UserID: 1, DocumentID: 1, Completed: true}, Coder: "alice", Document: doc,
			Annotations: []annotation.Annotation{{
				Span:   &annotation.Span{Start: 0, Length: 12},
				Labels: []project.Label{{Value: "PER"}},
			}}},
	}
	ts.sets.On("ListCompletedBundles", mock.Anything, int64(10)).Return(bundles, nil)

	rec := ts.request(t, http.MethodGet, "/api/projects/10/datasets/download", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	require.Equal(t, "sequence_labeling", data["type"])
	records := data["records"].([]any)
	require.Len(t, records, 1)
	record := records[0].(map[string]any)
	require.Equal(t, []any{"Barack", "Obama"}, record["x"])
	require.Equal(t, []any{"B-PER", "I-PER"}, record["y"])
}

func TestDeleteDocumentsStartsJob(t *testing.T) {
	ts := newTestServer(t)
	ts.assignRole(1, 10, user.RoleManager)
	ts.jobStore.On("Create", mock.Anything, mock.AnythingOfType("*job.Job")).Return(nil)
	ts.jobStore.On("Update", mock.Anything, mock.AnythingOfType("*job.Job")).Return(nil)
	ts.documents.On("ListIDs", mock.Anything, int64(10)).Return([]int64{}, nil)

	rec := ts.request(t, http.MethodPost, "/api/projects/10/documents/delete", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	j := data["job"].(map[string]any)
	require.NotEmpty(t, j["id"])
	ts.runner.Wait()
}

func TestGetJob(t *testing.T) {
	ts := newTestServer(t)
	ts.jobStore.On("Get", mock.Anything, "abc").
		Return(&job.Job{ID: "abc", Status: job.StatusSucceeded}, nil)

	rec := ts.request(t, http.MethodGet, "/api/jobs/abc", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	j := data["job"].(map[string]any)
	require.Equal(t, "succeeded", j["status"])
}

func TestGetJobNotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.jobStore.On("Get", mock.Anything, "missing").
		Return(nil, repository.ErrNotFound)

	rec := ts.request(t, http.MethodGet, "/api/jobs/missing", "1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddAnnotation(t *testing.T) {
	ts := newTestServer(t)
	ts.assignRole(1, 10, user.RoleDefault)
	ts.documents.On("Get", mock.Anything, int64(100)).
		Return(&document.Document{ID: 100, ProjectID: 10, Text: "Barack Obama"}, nil)
	ts.labels.On("GetByValue", mock.Anything, int64(10), "PER").
		Return(&project.Label{ID: 3, ProjectID: 10, Value: "PER"}, nil)
	ts.sets.On("Get", mock.Anything, int64(1), int64(100)).
		Return(&annotation.Set{ID: 5, UserID: 1, DocumentID: 100}, nil)
	ts.sets.On("AddAnnotation", mock.Anything, mock.AnythingOfType("*annotation.Annotation")).
		Return(nil)

	body := `{"labels": ["PER"], "span": {"start": 0, "length": 12}}`
	rec := ts.request(t, http.MethodPost, "/api/projects/10/documents/100/annotations", "1", body)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	ann := data["annotation"].(map[string]any)
	require.Equal(t, float64(5), ann["annotation_set_id"])
}

func TestAddAnnotationUnknownLabel(t *testing.T) {
	ts := newTestServer(t)
	ts.labels.On("GetByValue", mock.Anything, int64(10), "NOPE").
		Return(nil, repository.ErrNotFound)

	body := `{"labels": ["NOPE"]}`
	rec := ts.request(t, http.MethodPost, "/api/projects/10/documents/100/annotations", "1", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddAnnotationNotAssigned(t *testing.T) {
	ts := newTestServer(t)
	ts.documents.On("Get", mock.Anything, int64(100)).
		Return(&document.Document{ID: 100, ProjectID: 10}, nil)
	ts.labels.On("GetByValue", mock.Anything, int64(10), "PER").
		Return(&project.Label{ID: 3, ProjectID: 10, Value: "PER"}, nil)
	ts.assignments.On("Get", mock.Anything, int64(1), int64(10)).
		Return(nil, repository.ErrNotFound)

	body := `{"labels": ["PER"]}`
	rec := ts.request(t, http.MethodPost, "/api/projects/10/documents/100/annotations", "1", body)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateSetMarksCompleted(t *testing.T) {
	ts := newTestServer(t)
	ts.assignRole(1, 10, user.RoleDefault)
	ts.documents.On("Get", mock.Anything, int64(100)).
		Return(&document.Document{ID: 100, ProjectID: 10}, nil)
	ts.sets.On("Get", mock.Anything, int64(1), int64(100)).
		Return(&annotation.Set{ID: 5, UserID: 1, DocumentID: 100}, nil)
	ts.sets.On("Update", mock.Anything, mock.AnythingOfType("*annotation.Set")).
		Return(nil)

	rec := ts.request(t, http.MethodPatch, "/api/projects/10/documents/100/set", "1", `{"completed": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	set := data["annotation_set"].(map[string]any)
	require.Equal(t, true, set["completed"])
}

func TestDeleteAnnotation(t *testing.T) {
	ts := newTestServer(t)
	ts.sets.On("GetAnnotation", mock.Anything, int64(1), int64(10), int64(42)).
		Return(&annotation.Annotation{ID: 42, SetID: 5}, nil)
	ts.sets.On("DeleteAnnotation", mock.Anything, int64(42)).Return(nil)

	rec := ts.request(t, http.MethodDelete, "/api/projects/10/annotations/42", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteAnnotationNotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.sets.On("GetAnnotation", mock.Anything, int64(1), int64(10), int64(42)).
		Return(nil, repository.ErrNotFound)

	rec := ts.request(t, http.MethodDelete, "/api/projects/10/annotations/42", "1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
