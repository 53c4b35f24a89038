package main

import (
	"os"
)

var (
	version = "dev"
)

// Entry point for the application
func main() {
	if err := NewRootCmd().Execute(); err != nil {
		printError(os.Stderr, err.Error())
		os.Exit(1)
	}
}
