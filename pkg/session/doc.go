// Package session holds per-browsing-session conversation state: the
// session identifier, the append-only message history, and the cached
// agent client with its ready/failed state machine. A Store keys live
// sessions by browser token and a Reaper removes idle ones; nothing is
// persisted beyond process lifetime.
package session
