// Package syncs provides synchronization primitives for file updates.
//
// Updates of the same file from several goroutines are serialized with a
// [PathLock], while updates of unrelated files proceed concurrently.
package syncs
