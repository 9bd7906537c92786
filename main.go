package main

import (
	"log"

	"stayops/core/server"
)

func main() {
	srv, err := server.New()
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
