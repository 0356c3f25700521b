// Package config loads, parses, and validates application settings from a
// .env file, an optional config.yaml and CLEANCONNECT_-prefixed environment
// variables. A handful of unprefixed legacy variables (PORT, JWT_SECRET,
// JWT_EXPIRE, DATABASE_URL) are accepted as fallbacks.
package config
