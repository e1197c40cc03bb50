// Package setversion sets the version of a Cordova project.
//
// A [Setter] validates its inputs, reads config.xml (and package.json when
// present), updates the version attributes in memory, and only then writes
// the files back. Every update runs through the stages
// validating, reading, mutating and writing; [Result.Stage] records the stage
// an update finished in.
//
// [Setter.SetVersion] is the primary entry point. [Setter.SetVersionAsync]
// returns a channel that yields the [Result], [Setter.Update] updates several
// projects concurrently, and [Run] keeps the completion-callback form.
package setversion
