// Package paths resolves the config.xml and package.json files a version
// update operates on.
//
// An explicit path is always used as given. Without one, the default
// config.xml in the working directory is used, or [FindConfig] can search
// upward from a directory for the closest project.
package paths
