// Package model contains the database models for IssueHub.
//
// Models map to tables created by the migrations in db/migrations. Enum
// columns use PostgreSQL enum types; the Go side uses generated enumer code
// for parsing, JSON and SQL conversion.
package model
