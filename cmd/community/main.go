package main

import (
	"log"

	"fpibot/internal/app"
)

func main() {
	application, err := app.NewCommunity()
	if err != nil {
		log.Fatal(err)
	}

	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
