// Package main runs the coachbyte MCP server over stdio (for local agent use).
// The same MCP server is also mounted on the main backend at /mcp over HTTP,
// so you can use either: stdio (this cmd) or the backend URL (no extra deploy).
package main

import (
	"context"
	"flag"
	"log"

	"github.com/jbrinkw/luna-ext-coachbyte/internal/config"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/db"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/timer"
	"github.com/jbrinkw/luna-ext-coachbyte/internal/workout"
	workoutmcp "github.com/jbrinkw/luna-ext-coachbyte/internal/workout/mcp"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	timerFile := flag.String("timer-file", "", "rest timer file path (overrides config)")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     cfg.PostgresPassword,
		SearchPath:     cfg.PostgresSearchPath,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	var restTimer timer.Service
	switch {
	case *timerFile != "":
		restTimer = timer.NewFileTimer(*timerFile)
	case cfg.TimerBackend == "db":
		restTimer = timer.NewDBTimer(dbPool)
	case cfg.TimerFilePath != "":
		restTimer = timer.NewFileTimer(cfg.TimerFilePath)
	default:
		restTimer = timer.NewFileTimer("timer.json")
	}

	dayClock := workout.NewDayClock(cfg.DayTimeZone, cfg.DayStartTime)
	workoutService := workout.NewService(workout.NewRepo(dbPool), restTimer, dayClock, nil)
	server := workoutmcp.NewServer(workoutService, restTimer)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
