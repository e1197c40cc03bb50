// Package projectconfig loads the optional per-project settings file,
// `.cordova-set-version.yaml`, and describes it with a JSON schema.
package projectconfig
