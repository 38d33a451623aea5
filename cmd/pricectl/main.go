// Command pricectl prices Brazilian treasury instruments offline under the
// ANBIMA convention.
//
//	pricectl price -issue 2007-07-01 -maturity 2010-07-01 -settle 2008-05-21 -yield 0.1436
//	pricectl cashflows -issue 2008-01-01 -maturity 2014-01-01 -coupon 10 -round 5
//	pricectl sweep -issue 2007-07-01 -maturity 2010-07-01 -settle 2008-05-21
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/guttosm/b3yield/internal/logger"
)

var verbose = flag.Bool("v", false, "Log pricing diagnostics to stderr.")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for c, group := range Commands(os.Stdout) {
		commander.Register(c, group)
	}

	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger.InitWriter(os.Stderr, level, true)
	os.Exit(int(commander.Execute(context.Background())))
}
