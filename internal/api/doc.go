// Package api handles incoming HTTP requests for notes, validates them and
// formats responses. Handlers talk to a store.NoteStore, so which pool a
// request touches is decided by the store, not by the handler.
package api
