package utils

// Version is the current version of the module. Releases override it
// at build time.
var Version = "0.1.0"
