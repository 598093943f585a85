package main

import (
	"github.com/trezcool/goose"

	"github.com/trezcool/shule/fs"
)

var gooseRunFunc = goose.RunFS // mockable

func (cli *commandLine) migrate(args []string) error {
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	return gooseRunFunc(args[0], cli.db, appfs.FS, "migrations", rest...)
}
