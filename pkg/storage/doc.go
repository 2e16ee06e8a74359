/*
Package storage provides durable key-value persistence for coldtrack's
tracking state.

The primary implementation is BoltStore, backed by BoltDB (bbolt) with
a single `tracking` bucket and JSON values. The Store interface keeps
the persistence layer pluggable so a mobile shell can substitute its
native storage.

The only state persisted today is the per-order excursion countdown,
written under key `excursion_state_{orderId}` as
`{"elapsed": int, "in_excursion": bool, "saved_at": epoch_millis}`.
The excursion tracker is the single writer for its order's key, so
atomic single-key read/write is the only guarantee implementations
must provide.
*/
package storage
