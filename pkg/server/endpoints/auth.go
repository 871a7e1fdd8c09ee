package endpoints

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gorilla/mux"

	"github.com/issuehub/issuehub/pkg/audit"
	"github.com/issuehub/issuehub/pkg/auth"
	"github.com/issuehub/issuehub/pkg/guardrail"
	"github.com/issuehub/issuehub/pkg/identity"
	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/server"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// SignupRequest is the payload for POST /api/auth/signup
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued access token and its user.
type TokenResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// RegisterAuthEndpoints registers the unauthenticated signup and login
// routes. Both are rate-limited by client address, since there is no
// authenticated identity yet.
func RegisterAuthEndpoints(s *server.Server, router *mux.Router) {
	router.HandleFunc("/auth/signup", handleSignup(s)).Methods("POST")
	router.HandleFunc("/auth/login", handleLogin(s)).Methods("POST")
}

// RegisterSessionEndpoints registers the authenticated session routes.
// Tokens are stateless, so logout exists for the audit trail: it records
// that the session ended.
func RegisterSessionEndpoints(s *server.Server, router *mux.Router) {
	router.HandleFunc("/auth/logout", handleLogout(s)).Methods("POST")
}

func handleSignup(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := identity.RemoteIP(r)
		if !rateLimit(w, s.Limiter, clientIP, guardrail.ClassAuth) {
			return
		}

		var req SignupRequest
		if err := decodeJSON(r, &req); err != nil {
			respondValidation(w, map[string]string{"body": "malformed JSON"})
			return
		}

		fields := map[string]string{}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		if req.Name == "" {
			fields["name"] = "must not be empty"
		}
		if _, err := mail.ParseAddress(req.Email); err != nil {
			fields["email"] = "must be a valid email address"
		}
		if len(req.Password) < 8 {
			fields["password"] = "must be at least 8 characters"
		}
		if len(fields) > 0 {
			respondValidation(w, fields)
			return
		}

		if _, err := s.UsersStore.GetUserByEmail(req.Email); err == nil {
			respondConflict(w, "email already registered")
			return
		} else if !errors.Is(err, store.ErrUserNotFound) {
			respondServerError(w)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondServerError(w)
			return
		}

		user := &model.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
		if err := s.UsersStore.CreateUser(user); err != nil {
			respondServerError(w)
			return
		}

		token, err := s.TokenIssuer.Issue(user.ID)
		if err != nil {
			respondServerError(w)
			return
		}

		s.Recorder.Record(audit.AuthnEvent{
			UserID:    user.ID,
			Email:     user.Email,
			ClientIP:  clientIP,
			Operation: "signup",
			Success:   true,
		})
		respondWithJSON(w, http.StatusCreated, TokenResponse{Token: token, User: user})
	}
}

func handleLogin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := identity.RemoteIP(r)
		if !rateLimit(w, s.Limiter, clientIP, guardrail.ClassAuth) {
			return
		}

		var req LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondValidation(w, map[string]string{"body": "malformed JSON"})
			return
		}

		user, err := s.UsersStore.GetUserByEmail(strings.TrimSpace(req.Email))
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				// Same response as a bad password so login does not confirm
				// which addresses are registered.
				failLogin(w, s, 0, req.Email, clientIP)
				return
			}
			respondServerError(w)
			return
		}

		if !auth.VerifyPassword(user.PasswordHash, req.Password) {
			failLogin(w, s, user.ID, user.Email, clientIP)
			return
		}

		token, err := s.TokenIssuer.Issue(user.ID)
		if err != nil {
			respondServerError(w)
			return
		}

		s.Recorder.Record(audit.AuthnEvent{
			UserID:    user.ID,
			Email:     user.Email,
			ClientIP:  clientIP,
			Operation: "login",
			Success:   true,
		})
		respondWithJSON(w, http.StatusOK, TokenResponse{Token: token, User: user})
	}
}

func handleLogout(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		s.Recorder.Record(audit.AuthnEvent{
			UserID:    id.ID(),
			Email:     id.User.Email,
			ClientIP:  id.RemoteIP,
			Operation: "logout",
			Success:   true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func failLogin(w http.ResponseWriter, s *server.Server, userID int64, email, clientIP string) {
	s.Recorder.Record(audit.AuthnEvent{
		UserID:    userID,
		Email:     email,
		ClientIP:  clientIP,
		Operation: "login",
		Success:   false,
		Reason:    "bad credentials",
	})
	respondWithAPIError(w, http.StatusUnauthorized, CodeAuthenticationRequired, "invalid email or password", nil)
}
