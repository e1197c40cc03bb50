// Package manifest reads and updates the version field of a package.json
// manifest. Edits are made on the raw bytes, so key order, indentation and all
// other values are preserved.
package manifest
