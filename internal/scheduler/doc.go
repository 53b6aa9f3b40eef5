// Package scheduler holds the live set of pending race-weekend reminders and
// fires them at their fire instant.
//
// A reminder is keyed by session identity (season, round, event type); at
// most one is live per identity, and re-evaluating a session replaces its
// job rather than adding another. A job is only created when
// start - lead is strictly after now. Late reminders are never sent.
//
// Jobs live in a min-heap ordered by fire instant. One goroutine sleeps until
// the earliest fire instant (capped at 60 seconds so wall-clock jumps are
// picked up), delivers every due job synchronously in order, and goes back
// to sleep. Nothing is persisted; a restart rebuilds the set from the
// schedule feed.
package scheduler
