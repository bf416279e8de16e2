package cmd

import "fmt"

// Version information (injected at build time via ldflags).
var (
	Version   = "development"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func runVersion() {
	fmt.Printf("voxd %s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
