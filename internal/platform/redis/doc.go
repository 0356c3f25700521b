// Package redis provides the optional Redis-backed view cache. A nil cache
// is never handed to callers; when Redis is not configured the services run
// without one.
package redis
