package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/sleepdiary/internal/buildinfo"
	"github.com/dmitrijs2005/sleepdiary/internal/client/cli"
	"github.com/dmitrijs2005/sleepdiary/internal/client/config"
	"github.com/dmitrijs2005/sleepdiary/internal/flagx"
)

// With a command after the flags, e.g. "cli -f diary.txt add wake", that
// command runs once. Otherwise an interactive session starts.
func main() {

	ctx := context.Background()
	args := os.Args[1:]

	cfg, err := config.LoadConfig(args)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if command := flagx.Positional(args); len(command) > 0 {
		if err := app.Exec(ctx, command); err != nil {
			os.Exit(1)
		}
		return
	}

	buildinfo.PrintBuildData(os.Stdout)
	app.Run(ctx)

}
