package main

import (
	"log"

	"github.com/JoeYatesss/educonnect-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
