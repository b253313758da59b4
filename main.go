package main

import (
	"log"

	"github.com/elevateacademy/portal-api/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}
