package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/jakehasgithubnow/MentraOS-Extended-App/internal/bridge"
	"github.com/jakehasgithubnow/MentraOS-Extended-App/internal/reporter"
	"github.com/jakehasgithubnow/MentraOS-Extended-App/internal/volume"
)

// Compile-time configuration. The bridge deliberately has no flags, env
// vars, or config files.
const (
	userID    = "user@example.com"
	serverURL = "http://localhost:3000/control"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	fmt.Println("---------------------------------------------")
	fmt.Println("Remote Control Emulator (Volume Based)")
	fmt.Printf("Monitoring volume for user: %s\n", userID)
	fmt.Println("VOLUME UP/DOWN: Cycle Choices")
	fmt.Println("MUTE: Confirm Selection")
	fmt.Println("---------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sampler := volume.NewSampler(logger)
	client := reporter.NewClient(logger, serverURL, userID)

	bridge.New(logger, sampler, client).Run(ctx)

	fmt.Println("Emulator stopped.")
}
