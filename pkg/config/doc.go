// Package config loads IssueHub configuration from an issuehub.yml file and
// ISSUEHUB_* environment variables, with env taking precedence. Each
// attribute tracks whether its value came from the default, the file, or the
// environment.
package config
