// Command dbscan clusters 2-D point files by density.
//
//	dbscan run --eps 1.5 --min-pts 4 points.txt
//	dbscan watch --eps 1.5 --min-pts 4 points.txt
//	dbscan generate --kind blobs --k 3 --n 200 --seed 1 -o points.txt
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
