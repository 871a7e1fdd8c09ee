package endpoints

import (
	"github.com/issuehub/issuehub/pkg/server"
	"github.com/issuehub/issuehub/pkg/server/middleware"
)

// RegisterAll registers the full API on the server's router.
func RegisterAll(s *server.Server) {
	api := s.Router.PathPrefix("/api").Subrouter()

	// Signup and login are the only unauthenticated routes.
	RegisterAuthEndpoints(s, api)

	authn := middleware.NewAuthenticator(s.TokenIssuer, s.UsersStore)
	protected := api.NewRoute().Subrouter()
	protected.Use(authn.Middleware)

	RegisterSessionEndpoints(s, protected)
	RegisterWhoamiEndpoint(s, protected)
	RegisterUsersEndpoints(s, protected)
	RegisterProjectsEndpoints(s, protected)
	RegisterIssuesEndpoints(s, protected)
	RegisterGlobalIssuesEndpoint(s, protected)
	RegisterCommentsEndpoints(s, protected)
	RegisterAuditEndpoints(s, protected)
}
