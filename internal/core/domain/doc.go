// Package domain contains the core business entities for the tool:
// source-agnostic records fetched from Google APIs, the buckets they are
// grouped into, and the note document model the smart-merge exporter
// operates on.
//
// This package has no dependencies outside the standard library and is
// imported by every other internal package.
package domain
