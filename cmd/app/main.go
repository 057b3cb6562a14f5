package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/posrelay/internal/bootstrap"
	"github.com/osse101/posrelay/internal/config"
)

// @title posrelay API
// @version 1.0
// @description Catalog relay and sales ingestion for point-of-sale registers.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.RunServer(ctx, cfg); err != nil {
		stop()
		os.Exit(1)
	}
}
