// Package driving defines the interfaces through which the outside world
// drives the core ("primary" ports in hexagonal architecture). The CLI
// adapter depends on these, never on service implementations directly.
package driving
