// FilePath: cmd/bridge/main.go
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sparxlab/sparx-hub/internal/bridge"
	"github.com/sparxlab/sparx-hub/internal/config"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting SparX MQTT Bridge v%s", nuts.GetVersion())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateBridge(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	b := bridge.New(cfg)
	if err := b.Connect(); err != nil {
		nuts.L.Errorf("[Main] Bridge error: %v", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Main] Shutting down bridge...")
	b.Close()
}
