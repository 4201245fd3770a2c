// Package main provides the ShellNet CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("ShellNet %s\n", version)
		return
	}

	fmt.Println("ShellNet - Point-Cloud Convolution for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("See examples/shellconv for a training smoke test.")
}
