package endpoints

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuehub/issuehub/pkg/model"
)

func commentsPath(projectID, issueID int64) string {
	return projectPath(projectID, fmt.Sprintf("/issues/%d/comments", issueID))
}

func TestAddAndListComments(t *testing.T) {
	ts := newTestServer(t)
	ada, token := ts.seedUser(t, "Ada", "ada@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	issue := ts.seedIssue(t, project.ID, ada.ID, "Needs discussion")

	rec := ts.do(t, "POST", commentsPath(project.ID, issue.ID), token,
		CommentRequest{Body: "I can reproduce this"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var comment model.Comment
	decodeBody(t, rec, &comment)
	assert.Equal(t, ada.ID, comment.AuthorID)
	assert.Equal(t, issue.ID, comment.IssueID)

	rec = ts.do(t, "GET", commentsPath(project.ID, issue.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Items []model.Comment `json:"items"`
	}
	decodeBody(t, rec, &listing)
	require.Len(t, listing.Items, 1)
	assert.Equal(t, "I can reproduce this", listing.Items[0].Body)

	last := ts.f.entries[len(ts.f.entries)-1]
	assert.Equal(t, "comment.create", last.Action)
	assert.Equal(t, comment.ID, last.EntityID)
}

func TestEmptyCommentRejected(t *testing.T) {
	ts := newTestServer(t)
	ada, token := ts.seedUser(t, "Ada", "ada@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	issue := ts.seedIssue(t, project.ID, ada.ID, "Needs discussion")

	rec := ts.do(t, "POST", commentsPath(project.ID, issue.ID), token,
		CommentRequest{Body: "   \n\t "})
	requireErrorCode(t, rec, http.StatusUnprocessableEntity, "validation_failed")
}

func TestScriptContentRejectedAndNotPersisted(t *testing.T) {
	ts := newTestServer(t)
	ada, token := ts.seedUser(t, "Ada", "ada@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	issue := ts.seedIssue(t, project.ID, ada.ID, "Needs discussion")

	before := len(ts.f.entries)
	rec := ts.do(t, "POST", commentsPath(project.ID, issue.ID), token,
		CommentRequest{Body: `try this: <script>alert(1)</script>`})
	body := requireErrorCode(t, rec, http.StatusBadRequest, "content_rejected")

	findings := body.Error.Details["findings"].([]interface{})
	require.Len(t, findings, 1)
	finding := findings[0].(map[string]interface{})
	assert.Equal(t, "body", finding["field"])
	assert.Equal(t, "script", finding["category"])

	// Nothing persisted and nothing audited as a success.
	comments, err := ts.CommentsStore.ListComments(issue.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.Len(t, ts.f.entries, before)
}

func TestPIIContentRejectedOnIssueCreate(t *testing.T) {
	ts := newTestServer(t)
	ada, token := ts.seedUser(t, "Ada", "ada@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)

	rec := ts.do(t, "POST", projectPath(project.ID, "/issues"), token, CreateIssueRequest{
		Title:       "Contact the customer",
		Description: "Reach them at jane.doe@customer.example.com for details",
	})
	body := requireErrorCode(t, rec, http.StatusBadRequest, "content_rejected")

	findings := body.Error.Details["findings"].([]interface{})
	require.Len(t, findings, 1)
	finding := findings[0].(map[string]interface{})
	assert.Equal(t, "description", finding["field"])
	assert.Equal(t, "pii", finding["category"])
}

func TestCommentsHiddenFromNonMembers(t *testing.T) {
	ts := newTestServer(t)
	ada, _ := ts.seedUser(t, "Ada", "ada@example.com")
	_, eveToken := ts.seedUser(t, "Eve", "eve@example.com")
	project := ts.seedProject(t, "INFRA", "Infrastructure", ada.ID)
	issue := ts.seedIssue(t, project.ID, ada.ID, "Private discussion")

	rec := ts.do(t, "GET", commentsPath(project.ID, issue.ID), eveToken, nil)
	requireErrorCode(t, rec, http.StatusNotFound, "not_found")
}
