// Package driven defines the interfaces that core calls OUT to
// infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them:
//
//   - EventSource / TaskSource: fetch normalised records from Google APIs
//   - NoteVault: resolve and read note files inside the Obsidian vault
//   - TokenProvider: valid OAuth access tokens with transparent refresh
//   - ConfigStore: application configuration
//
// Import rules: this package may import domain only, never an adapter or
// connector package.
package driven
