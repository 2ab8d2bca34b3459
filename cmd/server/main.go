package main

import (
	_ "taskmanager/docs"
	"taskmanager/internal/config"
	"taskmanager/internal/logging"
	"taskmanager/internal/server"
)

// @title           Task Manager API
// @version         1.0
// @description     Multi-tenant task tracking: users, groups, tasks, and per-assignee assignment status.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	logging.Init(cfg.LogFile)

	s, err := server.Init(cfg)
	if err != nil {
		logging.Logger.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
