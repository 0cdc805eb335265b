// Package internal holds build metadata shared by the binaries.
package internal

// Version is the build version, set at build time with -ldflags
var Version = "dev"
