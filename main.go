// Package main is the entry point for the nfind CLI.
package main

import "nfind.dev/pkg/nfind/cmd"

func main() {
	cmd.Execute()
}
