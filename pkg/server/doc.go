// Package server wires the HTTP router, stores and decision components into
// one process. Endpoint handlers live in the endpoints subpackage.
package server
