package main

import (
	"eduverse/commands"
	"log"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
