// Package export implements the smart-merge export engine: it buckets
// fetched records into target notes, parses existing note text, renders
// canonical managed sections, merges them while preserving user edits,
// and commits the result atomically.
//
// The engine is deliberately free of API and auth concerns: it consumes
// domain.Record values and file paths, nothing else. Re-running an
// export with unchanged source data produces byte-identical notes;
// running it after a human checked a box preserves that state even when
// the machine-owned text of the same item changed upstream.
package export
