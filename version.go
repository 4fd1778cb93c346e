package s3ferry

// Version is the module release, reported by the CLI --version flag.
const Version = "1.0.0"
