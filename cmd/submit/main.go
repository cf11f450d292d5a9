// Command submit sends one task to the orchestrator and prints the result.
//
//	submit -task "What is the weather in Paris? Send results to a@b.com"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/omnix-ai/orchestrator/internal/config"
	"github.com/omnix-ai/orchestrator/internal/temporalx"
)

func main() {
	task := flag.String("task", "", "task text (required)")
	source := flag.String("source", "", "source name shown on the report")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall task timeout")
	flag.Parse()

	if strings.TrimSpace(*task) == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	c, err := temporalx.Dial(temporalx.Config{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		TaskQueue: cfg.Temporal.TaskQueue,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Temporal", zap.Error(err))
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := c.RunTask(ctx, *task, *source)
	if err != nil {
		logger.Fatal("Task failed", zap.Error(err))
	}

	fmt.Println(result.Response)
	fmt.Printf("\n[%s] domain=%s steps=%d tools=%s elapsed=%.2fs\n",
		result.TaskID, result.Domain, result.Steps,
		strings.Join(result.ToolsInvoked, ","), result.ElapsedSeconds)
}
