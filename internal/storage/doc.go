// Package storage defines the persistence interfaces for the character
// journal and session state.
//
// The character sheet itself is never stored: the journal is the source of
// truth and state is derived by replay. Implementations of these interfaces
// (SQLite for the durable journal, Redis for ephemeral session state) live
// in subpackages.
package storage
