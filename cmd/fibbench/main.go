// Command fibbench computes Fibonacci numbers with several decimal
// strategies, compares them, benchmarks them through the device sweep or
// serves them over HTTP.
package main

import (
	"context"
	"os"

	"github.com/agbru/fibbench/internal/app"
	apperrors "github.com/agbru/fibbench/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
