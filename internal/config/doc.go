// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional
// config.yaml. Every key can be set through a TASKFLOW_ prefixed variable,
// e.g. TASKFLOW_DATABASE_URL for database.url.
package config
