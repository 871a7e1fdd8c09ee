package endpoints

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuehub/issuehub/pkg/model"
)

func issuePath(projectID, issueID int64) string {
	return projectPath(projectID, fmt.Sprintf("/issues/%d", issueID))
}

func TestCreateIssueDefaults(t *testing.T) {
	ts := newTestServer(t)
	ada, token := ts.seedUser(t, "Ada", "ada@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)

	rec := ts.do(t, "POST", projectPath(project.ID, "/issues"), token, CreateIssueRequest{
		Title:       "Broken deploy",
		Description: "The deploy pipeline fails on the last step",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var issue model.Issue
	decodeBody(t, rec, &issue)
	assert.Equal(t, "open", issue.Status.String())
	assert.Equal(t, "medium", issue.Priority.String())
	assert.Equal(t, ada.ID, issue.ReporterID)
	assert.Nil(t, issue.AssigneeID)

	last := ts.f.entries[len(ts.f.entries)-1]
	assert.Equal(t, "issue.create", last.Action)
	assert.Equal(t, issue.ID, last.EntityID)
	assert.True(t, last.Allowed)
}

func TestCreateIssueRejectsNonMemberAssignee(t *testing.T) {
	ts := newTestServer(t)
	ada, token := ts.seedUser(t, "Ada", "ada@example.com")
	eve, _ := ts.seedUser(t, "Eve", "eve@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)

	rec := ts.do(t, "POST", projectPath(project.ID, "/issues"), token, CreateIssueRequest{
		Title:      "Assign to outsider",
		AssigneeID: &eve.ID,
	})
	body := requireErrorCode(t, rec, http.StatusUnprocessableEntity, "validation_failed")
	fields := body.Error.Details["fields"].(map[string]interface{})
	assert.Contains(t, fields, "assignee_id")
}

func TestCreateIssueRejectsUnknownPriority(t *testing.T) {
	ts := newTestServer(t)
	ada, token := ts.seedUser(t, "Ada", "ada@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)

	urgent := "urgent"
	rec := ts.do(t, "POST", projectPath(project.ID, "/issues"), token, CreateIssueRequest{
		Title:    "Bad priority",
		Priority: &urgent,
	})
	requireErrorCode(t, rec, http.StatusUnprocessableEntity, "validation_failed")
}

func TestMemberCannotTriage(t *testing.T) {
	ts := newTestServer(t)
	ada, _ := ts.seedUser(t, "Ada", "ada@example.com")
	bob, bobToken := ts.seedUser(t, "Bob", "bob@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	ts.seedMember(t, project.ID, bob.ID, model.RoleMember)
	issue := ts.seedIssue(t, project.ID, bob.ID, "Needs triage")

	resolved := "resolved"
	rec := ts.do(t, "PATCH", issuePath(project.ID, issue.ID), bobToken,
		map[string]interface{}{"status": resolved})
	body := requireErrorCode(t, rec, http.StatusForbidden, "authorization_denied")
	assert.Equal(t, "insufficient_role", body.Error.Details["reason"])

	// Nothing changed, and the denial was audited.
	stored, err := ts.IssuesStore.GetIssue(project.ID, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.IssueStatusOpen, stored.Status)

	last := ts.f.entries[len(ts.f.entries)-1]
	assert.Equal(t, "issue.triage.status", last.Action)
	assert.False(t, last.Allowed)
	assert.Equal(t, "insufficient_role", last.Reason)
}

func TestMaintainerTriagesStatusAndAssignee(t *testing.T) {
	ts := newTestServer(t)
	ada, adaToken := ts.seedUser(t, "Ada", "ada@example.com")
	bob, _ := ts.seedUser(t, "Bob", "bob@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	ts.seedMember(t, project.ID, bob.ID, model.RoleMember)
	issue := ts.seedIssue(t, project.ID, bob.ID, "Needs triage")

	rec := ts.do(t, "PATCH", issuePath(project.ID, issue.ID), adaToken,
		map[string]interface{}{"status": "in_progress", "assignee_id": bob.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated model.Issue
	decodeBody(t, rec, &updated)
	assert.Equal(t, "in_progress", updated.Status.String())
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, bob.ID, *updated.AssigneeID)

	// One entry per triaged field, both allowed.
	n := len(ts.f.entries)
	require.GreaterOrEqual(t, n, 2)
	assert.Equal(t, "issue.triage.status", ts.f.entries[n-2].Action)
	assert.Equal(t, "issue.triage.assignee", ts.f.entries[n-1].Action)
	assert.True(t, ts.f.entries[n-2].Allowed)
	assert.True(t, ts.f.entries[n-1].Allowed)
}

func TestExplicitNullClearsAssignee(t *testing.T) {
	ts := newTestServer(t)
	ada, token := ts.seedUser(t, "Ada", "ada@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	issue := ts.seedIssue(t, project.ID, ada.ID, "Assigned")
	require.NoError(t, ts.IssuesStore.UpdateIssue(&model.Issue{
		ID: issue.ID, ProjectID: project.ID, Title: issue.Title,
		Status: issue.Status, Priority: issue.Priority,
		ReporterID: issue.ReporterID, AssigneeID: &ada.ID,
		CreatedAt: issue.CreatedAt,
	}))

	rec := ts.do(t, "PATCH", issuePath(project.ID, issue.ID), token,
		map[string]interface{}{"assignee_id": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated model.Issue
	decodeBody(t, rec, &updated)
	assert.Nil(t, updated.AssigneeID)
}

func TestReporterEditsOwnIssueOtherMembersCannot(t *testing.T) {
	ts := newTestServer(t)
	ada, _ := ts.seedUser(t, "Ada", "ada@example.com")
	bob, bobToken := ts.seedUser(t, "Bob", "bob@example.com")
	carol, carolToken := ts.seedUser(t, "Carol", "carol@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	ts.seedMember(t, project.ID, bob.ID, model.RoleMember)
	ts.seedMember(t, project.ID, carol.ID, model.RoleMember)
	issue := ts.seedIssue(t, project.ID, bob.ID, "Original title")

	title := "Corrected title"
	rec := ts.do(t, "PATCH", issuePath(project.ID, issue.ID), bobToken,
		map[string]interface{}{"title": title})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, "PATCH", issuePath(project.ID, issue.ID), carolToken,
		map[string]interface{}{"title": "Hijacked"})
	body := requireErrorCode(t, rec, http.StatusForbidden, "authorization_denied")
	assert.Equal(t, "not_owner", body.Error.Details["reason"])

	stored, err := ts.IssuesStore.GetIssue(project.ID, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, title, stored.Title)
}

func TestMixedPatchDeniedEntirely(t *testing.T) {
	ts := newTestServer(t)
	ada, _ := ts.seedUser(t, "Ada", "ada@example.com")
	bob, bobToken := ts.seedUser(t, "Bob", "bob@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	ts.seedMember(t, project.ID, bob.ID, model.RoleMember)
	issue := ts.seedIssue(t, project.ID, bob.ID, "Original title")

	// Bob may edit the title of his own issue but not the status; a payload
	// carrying both must change nothing.
	rec := ts.do(t, "PATCH", issuePath(project.ID, issue.ID), bobToken,
		map[string]interface{}{"title": "New title", "status": "closed"})
	requireErrorCode(t, rec, http.StatusForbidden, "authorization_denied")

	stored, err := ts.IssuesStore.GetIssue(project.ID, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original title", stored.Title)
	assert.Equal(t, model.IssueStatusOpen, stored.Status)
}

func TestDeleteIssueReporterAndMaintainerOnly(t *testing.T) {
	ts := newTestServer(t)
	ada, adaToken := ts.seedUser(t, "Ada", "ada@example.com")
	bob, bobToken := ts.seedUser(t, "Bob", "bob@example.com")
	carol, carolToken := ts.seedUser(t, "Carol", "carol@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	ts.seedMember(t, project.ID, bob.ID, model.RoleMember)
	ts.seedMember(t, project.ID, carol.ID, model.RoleMember)

	first := ts.seedIssue(t, project.ID, bob.ID, "Reported by Bob")
	second := ts.seedIssue(t, project.ID, bob.ID, "Also by Bob")

	rec := ts.do(t, "DELETE", issuePath(project.ID, first.ID), carolToken, nil)
	requireErrorCode(t, rec, http.StatusForbidden, "authorization_denied")

	rec = ts.do(t, "DELETE", issuePath(project.ID, first.ID), bobToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, "DELETE", issuePath(project.ID, second.ID), adaToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListIssuesEnvelope(t *testing.T) {
	ts := newTestServer(t)
	ada, token := ts.seedUser(t, "Ada", "ada@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	ts.seedIssue(t, project.ID, ada.ID, "first")
	ts.seedIssue(t, project.ID, ada.ID, "second")
	ts.seedIssue(t, project.ID, ada.ID, "third")

	rec := ts.do(t, "GET", projectPath(project.ID, "/issues?status=open&limit=2"), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var listing ListResponse
	decodeBody(t, rec, &listing)
	assert.Equal(t, int64(3), listing.Total)
	assert.Equal(t, 2, listing.Limit)
	assert.Equal(t, 0, listing.Offset)
	require.Len(t, listing.Items, 2)
	// Newest first.
	assert.Equal(t, "third", listing.Items[0].Title)
	assert.Equal(t, "second", listing.Items[1].Title)
}

func TestListIssuesRejectsBadParameters(t *testing.T) {
	ts := newTestServer(t)
	ada, token := ts.seedUser(t, "Ada", "ada@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)

	rec := ts.do(t, "GET", projectPath(project.ID, "/issues?limit=9999&status=nope"), token, nil)
	body := requireErrorCode(t, rec, http.StatusUnprocessableEntity, "validation_failed")
	fields := body.Error.Details["fields"].(map[string]interface{})
	assert.Contains(t, fields, "limit")
	assert.Contains(t, fields, "status")
}

func TestListIssuesHiddenFromNonMembers(t *testing.T) {
	ts := newTestServer(t)
	ada, _ := ts.seedUser(t, "Ada", "ada@example.com")
	_, eveToken := ts.seedUser(t, "Eve", "eve@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)

	rec := ts.do(t, "GET", projectPath(project.ID, "/issues"), eveToken, nil)
	requireErrorCode(t, rec, http.StatusNotFound, "not_found")
}

func TestGlobalListingScopedToMemberships(t *testing.T) {
	ts := newTestServer(t)
	ada, adaToken := ts.seedUser(t, "Ada", "ada@example.com")
	eve, eveToken := ts.seedUser(t, "Eve", "eve@example.com")
	infra := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	web := ts.seedProject(t, "WEB", "Website", eve.ID)
	ts.seedIssue(t, infra.ID, ada.ID, "infra issue")
	ts.seedIssue(t, web.ID, eve.ID, "web issue")

	var listing ListResponse

	rec := ts.do(t, "GET", "/api/issues", adaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &listing)
	require.Len(t, listing.Items, 1)
	assert.Equal(t, "infra issue", listing.Items[0].Title)

	// A caller with no memberships gets an empty page, not an error.
	_, lonerToken := ts.seedUser(t, "Loner", "loner@example.com")
	rec = ts.do(t, "GET", "/api/issues", lonerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &listing)
	assert.Empty(t, listing.Items)
	assert.Equal(t, int64(0), listing.Total)

	rec = ts.do(t, "GET", "/api/issues", eveToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &listing)
	require.Len(t, listing.Items, 1)
	assert.Equal(t, "web issue", listing.Items[0].Title)
}

func TestWriteRateLimitReturnsRetryAfter(t *testing.T) {
	ts := newTestServerWithLimits(t, 1000, 1)
	ada, token := ts.seedUser(t, "Ada", "ada@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)

	first := ts.do(t, "POST", projectPath(project.ID, "/issues"), token,
		CreateIssueRequest{Title: "fits in the bucket"})
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := ts.do(t, "POST", projectPath(project.ID, "/issues"), token,
		CreateIssueRequest{Title: "bucket is empty"})
	body := requireErrorCode(t, second, http.StatusTooManyRequests, "rate_limited")
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	retry, ok := body.Error.Details["retry_after_seconds"].(float64)
	require.True(t, ok)
	assert.Greater(t, retry, 0.0)
}
