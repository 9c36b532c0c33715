// Command usbgen renders USB descriptor definitions as byte tables.
//
//	usbgen render device.toml --format c -o descriptors.h
//	usbgen kinds
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ardnew/usbdesc/pkg"
)

func main() {
	os.Exit(execute(newRootCmd()))
}

// execute runs cmd and returns the process exit code.
func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		pkg.LogError(pkg.ComponentCLI, "usbgen failed", "error", err)
		return 1
	}
	return 0
}
