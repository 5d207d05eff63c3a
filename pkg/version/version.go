package version

// Populated at build time via -ldflags.
var (
	GitVersion = "dev"
	BuildDate  = "unknown"
)
