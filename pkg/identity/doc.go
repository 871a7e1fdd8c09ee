// Package identity carries the authenticated caller through a request.
//
// The auth package handles parsing and validating the raw bearer token. This
// package builds on that to provide the request-scoped identity: the loaded
// user record plus request context such as the client address, stored under a
// typed context key.
package identity
