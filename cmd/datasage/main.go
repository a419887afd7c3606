// Command datasage is an AI data analyst for CSV and Excel files.
//
// Usage:
//
//	GEMINI_API_KEY=... datasage ask sales.csv "Summarize this dataset"
//	datasage summarize 'data/**/*.csv'
//	datasage chat sales.xlsx
//	datasage serve --addr :8080
//
// Configuration is read from ~/.config/datasage/config.toml, then from the
// environment, then from flags. Run datasage --help for the command list.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(os.Stdout, os.Stderr, os.Getenv)
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "datasage: %v\n", err)
		stop()
		os.Exit(1)
	}
}
