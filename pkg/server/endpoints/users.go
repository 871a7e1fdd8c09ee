package endpoints

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/issuehub/issuehub/pkg/server"
)

const userSearchLimit = 20

// RegisterUsersEndpoints registers the user search route, used when picking a
// member to add to a project.
func RegisterUsersEndpoints(s *server.Server, router *mux.Router) {
	router.HandleFunc("/users/search", handleSearchUsers(s)).Methods("GET")
}

func handleSearchUsers(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if len(query) < 2 {
			respondValidation(w, map[string]string{"q": "must be at least 2 characters"})
			return
		}

		users, err := s.UsersStore.SearchUsers(query, userSearchLimit)
		if err != nil {
			respondServerError(w)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"items": users})
	}
}
