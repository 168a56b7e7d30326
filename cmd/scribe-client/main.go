package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	serverURL   = flag.String("server", "http://localhost:8080", "Backend URL (server started with -transport sse)")
	timeoutSecs = flag.Int("timeout", 60, "Client timeout in seconds")
	scenario    = flag.String("scenario", "spellcheck", "Scenario to run (spellcheck, files, startup, stats)")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeoutSecs)*time.Second)
	defer cancel()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := NewClient(*serverURL)
	if err := c.Run(ctx, *scenario); err != nil {
		log.Printf("Client failed: %v", err)
		os.Exit(1)
	}

	log.Println("Client operations completed successfully")
}
