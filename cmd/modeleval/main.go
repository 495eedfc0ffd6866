// cmd/modeleval/main.go
package main

import (
	cmd "github.com/mwiater/modeleval/internal/cli"
)

// main starts the modeleval CLI application by delegating to the
// cobra root command defined in the modeleval package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
