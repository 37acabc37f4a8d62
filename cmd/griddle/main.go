// Command griddle is the grid engine's command-line front end.
package main

import "github.com/mesh-intelligence/griddle/internal/cli"

func main() {
	cli.Execute()
}
