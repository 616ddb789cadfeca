// Command crossbar is the CLI entry point for the crossbar dispatch system.
package main

import "github.com/mesh-intelligence/crossbar/internal/cli"

func main() {
	cli.Execute()
}
