// Package tracing records the duration of each stage of a version update.
package tracing
