package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuehub/issuehub/pkg/model"
)

func TestSearchUsersMatchesNameAndEmail(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedUser(t, "Ada Lovelace", "ada@example.com")
	ts.seedUser(t, "Bob", "bob@lovelace.example.com")
	ts.seedUser(t, "Carol", "carol@example.com")

	rec := ts.do(t, "GET", "/api/users/search?q=lovelace", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Items []model.User `json:"items"`
	}
	decodeBody(t, rec, &listing)
	require.Len(t, listing.Items, 2)
	assert.Equal(t, "Ada Lovelace", listing.Items[0].Name)
	assert.Equal(t, "Bob", listing.Items[1].Name)
}

func TestSearchUsersRequiresQuery(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedUser(t, "Ada", "ada@example.com")

	rec := ts.do(t, "GET", "/api/users/search", token, nil)
	requireErrorCode(t, rec, http.StatusUnprocessableEntity, "validation_failed")

	rec = ts.do(t, "GET", "/api/users/search?q=%20a%20", token, nil)
	requireErrorCode(t, rec, http.StatusUnprocessableEntity, "validation_failed")
}
