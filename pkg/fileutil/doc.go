// Package fileutil provides file helpers used when rewriting project files.
package fileutil
