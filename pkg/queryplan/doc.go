// Package queryplan turns raw issue-list query parameters into a validated,
// bounded plan with a deterministic result ordering. Planning and applying
// a plan are pure; stores translate the same plan into SQL.
package queryplan
