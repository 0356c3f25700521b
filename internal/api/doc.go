// Package api holds the HTTP handlers of the marketplace. Handlers decode and
// validate requests, call the services in internal/service and write the
// JSON envelope defined in internal/api/shared. Errors from lower layers are
// translated to status codes and safe messages in errors.go.
package api
