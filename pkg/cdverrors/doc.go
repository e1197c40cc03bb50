// Package cdverrors provides error definitions shared by the version tooling.
//
// Errors are defined as sentinels so callers can classify failures with
// [errors.Is] regardless of how much context was wrapped around them.
package cdverrors
