package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/issuehub/issuehub/pkg/audit"
	"github.com/issuehub/issuehub/pkg/auth"
	"github.com/issuehub/issuehub/pkg/authz"
	"github.com/issuehub/issuehub/pkg/config"
	"github.com/issuehub/issuehub/pkg/guardrail"
	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/server"
)

type testServer struct {
	*server.Server
	f      *fixture
	syslog *bytes.Buffer
}

// newTestServer wires a server around in-memory stores with rate limits high
// enough not to interfere. Tests that exercise the limiter build their own
// server via newTestServerWithLimits.
func newTestServer(t *testing.T) *testServer {
	return newTestServerWithLimits(t, 1000, 1000)
}

func newTestServerWithLimits(t *testing.T, authCapacity, writeCapacity int) *testServer {
	t.Helper()

	f := newFixture()
	cfg := &config.Config{
		TokenSecret:       "test-secret",
		TokenTTLMinutes:   60,
		ListLimitMax:      100,
		AuthRateCapacity:  authCapacity,
		AuthRateRefill:    0.001,
		WriteRateCapacity: writeCapacity,
		WriteRateRefill:   0.001,
		AuditEnabled:      true,
	}

	syslog := &bytes.Buffer{}
	logger := audit.NewLogger()
	logger.SetWriter(syslog)

	auditStore := fakeAudit{f: f}
	recorder, err := audit.NewRecorder(logger, auditStore, cfg.AuditEnabled)
	require.NoError(t, err)

	memberships := fakeMemberships{f: f}
	s := &server.Server{
		Router:      mux.NewRouter().UseEncodedPath(),
		Config:      cfg,
		TokenIssuer: auth.NewTokenIssuer([]byte(cfg.TokenSecret), cfg.TokenTTL()),
		Limiter: guardrail.NewLimiter(guardrail.NewMemoryBuckets(), map[guardrail.ActionClass]guardrail.Limit{
			guardrail.ClassAuth:  {Capacity: cfg.AuthRateCapacity, Refill: cfg.AuthRateRefill},
			guardrail.ClassWrite: {Capacity: cfg.WriteRateCapacity, Refill: cfg.WriteRateRefill},
		}),
		Recorder: recorder,
		Resolver: authz.NewResolver(memberships),

		UsersStore:       fakeUsers{f: f},
		ProjectsStore:    fakeProjects{f: f},
		MembershipsStore: memberships,
		IssuesStore:      fakeIssues{f: f},
		CommentsStore:    fakeComments{f: f},
		AuditStore:       auditStore,
	}
	RegisterAll(s)

	return &testServer{Server: s, f: f, syslog: syslog}
}

// seedUser creates a user directly in the store and returns it with a valid
// bearer token, bypassing the signup endpoint.
func (ts *testServer) seedUser(t *testing.T, name, email string) (model.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("correct horse battery")
	require.NoError(t, err)
	user := model.User{Name: name, Email: email, PasswordHash: hash}
	require.NoError(t, ts.UsersStore.CreateUser(&user))
	token, err := ts.TokenIssuer.Issue(user.ID)
	require.NoError(t, err)
	return user, token
}

func (ts *testServer) seedProject(t *testing.T, key, name string, maintainerID int64) model.Project {
	t.Helper()
	project := model.Project{Key: key, Name: name}
	require.NoError(t, ts.ProjectsStore.CreateProject(&project))
	ts.seedMember(t, project.ID, maintainerID, model.RoleMaintainer)
	return project
}

func (ts *testServer) seedMember(t *testing.T, projectID, userID int64, role model.Role) {
	t.Helper()
	require.NoError(t, ts.MembershipsStore.AddMember(&model.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}))
}

func (ts *testServer) seedIssue(t *testing.T, projectID, reporterID int64, title string) model.Issue {
	t.Helper()
	issue := model.Issue{
		ProjectID:  projectID,
		Title:      title,
		Status:     model.IssueStatusOpen,
		Priority:   model.IssuePriorityMedium,
		ReporterID: reporterID,
	}
	require.NoError(t, ts.IssuesStore.CreateIssue(&issue))
	return issue
}

// do drives a request through the real router, including the auth middleware.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.Router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// errorBody mirrors the error envelope every endpoint writes.
type errorBody struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) errorBody {
	t.Helper()
	require.Equal(t, status, rec.Code, "unexpected status, body: %s", rec.Body.String())
	var body errorBody
	decodeBody(t, rec, &body)
	require.Equal(t, code, body.Error.Code)
	return body
}

func projectPath(projectID int64, rest string) string {
	return fmt.Sprintf("/api/projects/%d%s", projectID, rest)
}
