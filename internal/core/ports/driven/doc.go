// Package driven defines the secondary ports: interfaces the core services
// require from infrastructure. Adapters (SQLite storage, file config)
// implement these; the core depends only on the interfaces.
package driven
