package endpoints

import (
	"fmt"
	"net/http"

	"github.com/issuehub/issuehub/pkg/authz"
	"github.com/issuehub/issuehub/pkg/guardrail"
)

// Stable machine-readable error codes.
const (
	CodeAuthenticationRequired = "authentication_required"
	CodeAuthorizationDenied    = "authorization_denied"
	CodeValidationFailed       = "validation_failed"
	CodeContentRejected        = "content_rejected"
	CodeRateLimited            = "rate_limited"
	CodeNotFound               = "not_found"
	CodeConflict               = "conflict"
	CodeServerError            = "server_error"
)

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func respondWithAPIError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	respondWithError(w, status, apiError{Code: code, Message: message, Details: details})
}

// respondNotFound hides resources outside the caller's visibility scope:
// "absent" and "exists but forbidden" are deliberately indistinguishable.
func respondNotFound(w http.ResponseWriter, what string) {
	respondWithAPIError(w, http.StatusNotFound, CodeNotFound, what+" not found", nil)
}

func respondDenied(w http.ResponseWriter, reason authz.DenyReason) {
	respondWithAPIError(w, http.StatusForbidden, CodeAuthorizationDenied, "permission denied",
		map[string]string{"reason": string(reason)})
}

func respondValidation(w http.ResponseWriter, fields map[string]string) {
	respondWithAPIError(w, http.StatusUnprocessableEntity, CodeValidationFailed, "invalid request",
		map[string]interface{}{"fields": fields})
}

func respondContentRejected(w http.ResponseWriter, findings []guardrail.Finding) {
	details := make([]map[string]string, 0, len(findings))
	for _, f := range findings {
		details = append(details, map[string]string{
			"field":    f.Field,
			"category": string(f.Category),
		})
	}
	respondWithAPIError(w, http.StatusBadRequest, CodeContentRejected,
		fmt.Sprintf("content rejected (%s)", findings[0].Category),
		map[string]interface{}{"findings": details})
}

func respondRateLimited(w http.ResponseWriter, result guardrail.Result) {
	retryAfter := result.RetryAfter.Seconds()
	w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter+0.5))
	respondWithAPIError(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded",
		map[string]float64{"retry_after_seconds": retryAfter})
}

func respondConflict(w http.ResponseWriter, message string) {
	respondWithAPIError(w, http.StatusConflict, CodeConflict, message, nil)
}

func respondServerError(w http.ResponseWriter) {
	respondWithAPIError(w, http.StatusInternalServerError, CodeServerError, "internal error", nil)
}
