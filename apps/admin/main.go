package main

import (
	"log"
	"os"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/database"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(err)
	}
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// start CLI
	cli := commandLine{
		db:     db.DB,
		usrSvc: user.NewService(database.NewUserRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
