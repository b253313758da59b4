package app

import (
	"fmt"
	"log"
	"os"

	"github.com/elevateacademy/portal-api/api"
	"github.com/elevateacademy/portal-api/config"
	"github.com/elevateacademy/portal-api/database"
	"github.com/elevateacademy/portal-api/router"
	"github.com/elevateacademy/portal-api/services/cron"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		log.Println("Check whether Postgres is running and DB_* variables are set")
		return err
	}

	if err := store.Init(); err != nil {
		log.Println("Error running migrations:", err)
		return err
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return fmt.Errorf("failed to get GORM DB instance")
	}

	// Default settings and the bootstrap admin account
	if err := database.Seed(db); err != nil {
		log.Println("Error seeding defaults:", err)
		return err
	}

	// Cron jobs: stale payment expiry, counter reconciliation, log cleanup
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(db)
		if err := cronManager.Start(); err != nil {
			log.Println("Warning: Failed to start cron jobs:", err)
			// Don't fail the app, just log the warning
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is attached inside)
	router.SetupRoutes(app, store, getEnv)

	return server.Run()
}
