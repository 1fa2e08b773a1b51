package main

import (
	"flag"
	"log"
	"os"

	"netchess/internal/httpx"
)

func main() {
	addr := flag.String("addr", getenv("NETCHESS_ADDR", ":8080"), "listen address")
	flag.Parse()

	srv := httpx.NewServer()
	if err := srv.Listen(*addr); err != nil {
		log.Fatal(err)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
