// Package main is the entry point of the squidlr command.
package main

import (
	"github.com/samber/lo"
	"github.com/squidlr/squidlr/cmd"
	"github.com/squidlr/squidlr/config"
	"github.com/squidlr/squidlr/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
