// Package events provides an in-process, synchronous event bus.
//
// Services emit DomainEvents after successful writes (provider.updated,
// review.submitted, client.updated) without knowing who listens. Handlers
// subscribe to the event types they care about, such as the catalog cache
// invalidator, and run inside the emitting request. There are no queues and
// no retries: a failed handler is logged and reported to the emitter, which
// decides whether it matters.
package events
