package main

import (
	"Glacier/CronJobs"
	"Glacier/FiberConfig"
	"Glacier/Models"
	"log"
)

func main() {
	Models.Connect()

	if err := Models.SeedAdmin(); err != nil {
		log.Printf("Admin seeding skipped: %v", err)
	}

	maintenance := CronJobs.NewMaintenanceRunner(true)
	if err := maintenance.Start(); err != nil {
		log.Printf("Failed to start maintenance scheduler: %v", err)
	}
	defer maintenance.Stop()

	FiberConfig.FiberConfig()
}
