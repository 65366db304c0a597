// Package services contains the core orchestration logic. Services
// depend on driven ports for infrastructure and implement driving ports
// for the CLI adapter.
package services
