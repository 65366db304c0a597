// Package google provides shared plumbing for the Google API
// connectors: service construction from an OAuth token source, a common
// error taxonomy over googleapi errors, and per-service rate limiting.
//
// The subpackages (calendar, tasks, gmail, drive) fetch remote objects
// and normalise them into domain records; nothing in the export core
// ever imports them.
package google
