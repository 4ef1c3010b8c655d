package config

// Split defaults.
const (
	DefaultNumPerSplit = 100000
	DefaultReadBuffer  = "1MiB"
	DefaultOutputDir   = ""
	DefaultCompress    = false
)

// Logging defaults.
const (
	DefaultLogLevel = "info"
)
