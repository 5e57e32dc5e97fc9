// Command movierental manages customers, movies and rentals of a video rental shop.
//
// Configuration is read by the shell/config package from MOVIERENTAL_* environment variables,
// or from the file named by MOVIERENTAL_CONFIG.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/AntonStoeckl/movierental-go/rental"
)

const (
	exitFailure    = 1
	exitValidation = 2
	exitNotFound   = 3
	exitConflict   = 4
	exitStorage    = 5
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := newCLI(openFromConfig).execute(ctx, args, stdout, stderr); err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)

		return exitCode(err)
	}

	return 0
}

// exitCode maps the rental error taxonomy to process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, rental.ErrValidation):
		return exitValidation
	case errors.Is(err, rental.ErrNotFound):
		return exitNotFound
	case errors.Is(err, rental.ErrConflict), errors.Is(err, rental.ErrAlreadyReturned):
		return exitConflict
	case errors.Is(err, rental.ErrStorage), errors.Is(err, rental.ErrConcurrencyConflict):
		return exitStorage
	default:
		return exitFailure
	}
}
