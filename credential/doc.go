// Package credential holds the process-wide bearer credential.
//
// The in-memory value is authoritative: it is the fastest and least exposed
// place to keep a bearer token, and nothing outside this package persists a
// copy beyond the lifetime of one request attempt. An optional durable
// Backend mirrors the value best-effort so a credential survives a process
// restart; mirror failures are reported through a hook and swallowed.
//
// # Usage
//
//	store := credential.NewStore(credential.StoreConfig{
//	    Backend: credential.NewFileBackend(path),
//	})
//	store.Initialize(ctx) // seed from the backend once at startup
//
//	token, ok := store.Get()
//	store.Set(ctx, newToken) // memory now, backend asynchronously
//	store.Clear(ctx)         // logout: memory and backend
package credential
