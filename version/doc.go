// Package version reports which rowpipe binary is running.
//
// Version, commit, branch and build time can be set with -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/rowpipe/version.Version=1.0.0"
//
// Anything left unset is filled from the VCS stamp in the binary's build
// info. Record renders the result as a pipeline value so `rowpipe version`
// can be written in any output format.
package version
