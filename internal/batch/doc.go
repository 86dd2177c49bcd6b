// Package batch converts many Markdown sources concurrently with a bounded
// pool of workers. Results come back in input order regardless of which worker
// finished first.
package batch
