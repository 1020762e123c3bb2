package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Missing or invalid configuration
	ExitDataError   = 3 // Unreadable inputs or a graph that cannot be processed
)
