package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"eduport/internal/config"
	"eduport/internal/db"
	"eduport/internal/models"
	"eduport/internal/tasks"
	"eduport/internal/utils/logger"
)

// Operator helper: seed the super admin account and/or enqueue resource
// exports without starting the full server.
func main() {
	log := logger.New("helper")

	seed := flag.Bool("seed", false, "seed the super admin account from env")
	export := flag.String("export", "", "comma separated resources to enqueue for CSV export")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", err)
	}

	if *seed {
		if err := db.Connect(cfg); err != nil {
			log.Fatal("Failed to connect to database", err)
		}
		defer db.Close()

		if err := models.CreateSuperAdminFromEnv(db.GetDB(), cfg); err != nil {
			log.Fatal("Failed to seed super admin", err)
		}
	}

	if *export != "" {
		client := tasks.NewTaskClient(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := client.Ping(ctx); err != nil {
			log.Fatal("Task broker unreachable", err)
		}

		catalog := models.Catalog()
		for _, name := range strings.Split(*export, ",") {
			name = strings.TrimSpace(name)
			if _, ok := catalog[name]; !ok {
				log.Warn("Skipping unknown resource %q", name)
				continue
			}
			if err := client.EnqueueResourceExport(ctx, name); err != nil {
				log.Fatal("Failed to enqueue export", err)
			}
		}
	}

	if !*seed && *export == "" {
		flag.Usage()
	}
}
