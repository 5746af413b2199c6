package main

import (
	app "github.com/covergen/covergen-api/pkg/api"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	a := app.NewApp()
	a.RunForever()
}
