package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	if err := cli.Execute(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	v := os.Getenv(domain.EnvDebug)
	return strings.EqualFold(v, "1") || strings.EqualFold(v, "true")
}
