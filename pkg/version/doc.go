// Package version provides build information for the application.
//
// The variables are set at link time, e.g.
//
//	go build -ldflags "-X github.com/MacroPower/cordova-set-version/pkg/version.Version=1.2.3"
package version
