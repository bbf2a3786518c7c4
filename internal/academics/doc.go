// Package academics turns raw portal records into normalized dates, batch
// memberships, grouped statistics and the annual report. It performs no I/O
// and never mutates its inputs, so every function is safe to call
// concurrently and to memoize.
package academics
