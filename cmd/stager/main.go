package main

import (
	"os"
)

func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd, err)
		os.Exit(1)
	}
}
