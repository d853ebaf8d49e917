// Command shapegen generates Go data types, builders, constraint
// violations and JSON deserializers from a shape model.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reoring/shapegen/internal/commands"
)

func main() {
	if err := commands.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
