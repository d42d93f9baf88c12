// Package domain holds the canonical record types for the two ingested
// time series (stock bars and weather samples) and the pure transformation
// logic that turns raw provider rows into canonical batches.
//
// The package is deliberately free of I/O. Source adapters produce raw
// batches with provider values still untyped; the Normalize functions coerce
// and project them into the canonical column order; the store consumes the
// result through the Row interface. Coercion is total: a value that cannot
// be read as a number degrades to nil, never to an error.
package domain
