package main

import (
	"github.com/covergen/covergen-api/pkg/worker/app"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	a := app.NewApp()
	a.Run()
}
