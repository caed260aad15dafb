package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/authservice/internal/client/cli"
	"github.com/dmitrijs2005/authservice/internal/client/config"
)

func main() {

	cfg, command, err := config.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background(), command); err != nil {
		log.Fatalf("%v", err)
	}

}
