// Package main implements issuehubctl, the IssueHub server CLI.
//
// IssueHub is a collaborative issue tracker. Every request passes through a
// decision layer: membership resolution, an authorization gate, guardrails
// (rate limiting and content scanning), and an audit recorder.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/store: storage interfaces and the gorm implementations
//   - pkg/authz: membership resolution and the authorization gate
//   - pkg/guardrail: rate limiting and content scanning
//   - pkg/queryplan: issue listing query planner
//   - pkg/audit: audit recorder and RFC 5424 event logging
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	issuehubctl db migrate
//
//	# Optionally load demo data
//	issuehubctl seed
//
//	# Start the server
//	export ISSUEHUB_TOKEN_SECRET=$(head -c 32 /dev/urandom | base64)
//	issuehubctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - ISSUEHUB_TOKEN_SECRET: HMAC secret for signing access tokens
//   - ISSUEHUB_CONFIG_PATH: directory holding issuehub.yml
//   - ISSUEHUB_LOG_LEVEL: log level (debug, info, warn, error)
//   - ISSUEHUB_PORT: server port (default: 8000)
package main
