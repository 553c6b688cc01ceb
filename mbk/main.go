// mbk is the money book command line interface.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/hmdy/moneybook/cmd"
)

func main() {
	// Optional per-directory environment (MBK_DIR, MBK_BOOK).
	godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	completion()

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion installs shell completion over the command names. It exits the
// process when invoked by the shell completion hook and is a no-op otherwise.
func completion() {
	sub := func() *complete.Command {
		return &complete.Command{Flags: map[string]complete.Predictor{
			"a":    predict.Something,
			"d":    predict.Something,
			"book": predict.Files("*.jsonl"),
		}}
	}
	complete.Complete("mbk", &complete.Command{
		Sub: map[string]*complete.Command{
			"new-account":      sub(),
			"accounts":         sub(),
			"del-account":      sub(),
			"tx":               sub(),
			"txs":              sub(),
			"del-tx":           sub(),
			"transfer":         sub(),
			"import":           sub(),
			"add-recurring":    sub(),
			"recurrings":       sub(),
			"toggle-recurring": sub(),
			"del-recurring":    sub(),
			"due":              sub(),
			"process":          sub(),
			"watch":            sub(),
			"remind":           sub(),
			"summary":          sub(),
		},
	})
}
