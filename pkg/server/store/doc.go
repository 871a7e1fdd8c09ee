// Package store defines the storage interfaces consumed by the HTTP
// endpoints. Implementations live in the gorm subpackage; tests substitute
// in-memory mocks.
package store
