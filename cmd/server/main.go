package main

import (
	"context"
	"log"

	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/app"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	a.Run(ctx)
}
