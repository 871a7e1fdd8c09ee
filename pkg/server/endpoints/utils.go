package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/issuehub/issuehub/pkg/guardrail"
	"github.com/issuehub/issuehub/pkg/identity"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// pathID extracts a positive integer path variable.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// decodeJSON parses a request body into v, rejecting unknown fields so typos
// surface as validation errors instead of silently dropped input.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// caller returns the request identity set by the auth middleware.
func caller(r *http.Request) (*identity.Identity, bool) {
	return identity.Get(r.Context())
}

// rateLimit consumes one token for (subject, class) and writes the 429
// response on denial. Returns false when the request must not proceed.
func rateLimit(w http.ResponseWriter, limiter *guardrail.Limiter, subject string, class guardrail.ActionClass) bool {
	result := limiter.Allow(subject, class)
	if !result.OK {
		respondRateLimited(w, result)
		return false
	}
	return true
}

// scanContent runs the content scanner over fields and writes the rejection
// response on a match. Returns false when the request must not proceed.
func scanContent(w http.ResponseWriter, fields map[string]string) bool {
	findings := guardrail.ScanFields(fields)
	if len(findings) > 0 {
		respondContentRejected(w, findings)
		return false
	}
	return true
}
