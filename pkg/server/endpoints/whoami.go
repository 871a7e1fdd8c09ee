package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/issuehub/issuehub/pkg/server"
)

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server, router *mux.Router) {
	router.HandleFunc("/whoami", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caller(r)
		if !ok {
			respondWithAPIError(w, http.StatusUnauthorized, CodeAuthenticationRequired, "unable to determine identity", nil)
			return
		}
		respondWithJSON(w, http.StatusOK, id.User)
	}
}
