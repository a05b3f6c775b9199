// SheetGang gangs a folder of images onto print sheets.
//
// Every image is placed into a uniform grid of frames, paired with a cut
// outline on a non-printing layer and written as a print-ready PDF.
//
// Build:
//   go build -o sheetgang ./cmd/sheetgang
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o sheetgang.exe ./cmd/sheetgang
//   GOOS=darwin  GOARCH=arm64 go build -o sheetgang-darwin ./cmd/sheetgang

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/SheetGang/internal/cli"
)

// Set by -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		os.Exit(130)
	default:
		os.Exit(1)
	}
}
