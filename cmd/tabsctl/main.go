// Command tabsctl manages the account document from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&importCmd{}, "accounts")
	c.Register(&listCmd{}, "accounts")
	c.Register(&updateCmd{}, "accounts")
	c.Register(&deleteCmd{}, "accounts")
	c.Register(&clearCmd{}, "accounts")

	c.Register(&statsCmd{}, "reports")
	c.Register(&groupsCmd{}, "reports")
}
