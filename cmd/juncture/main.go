// Command juncture is a command-line client for the Juncture API.
package main

import (
	"context"
	"os"
	"os/signal"
)

// version is set at build time with -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, newApp(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
