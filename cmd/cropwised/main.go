package main

import (
	"log"

	"github.com/agrosense/cropwise/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
