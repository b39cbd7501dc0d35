package main

import (
	"context"
	"log"

	"github.com/dsmirnov/passvault/internal/server"
	"github.com/dsmirnov/passvault/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
