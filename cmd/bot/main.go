package main

import (
	"log"

	"github.com/joho/godotenv"

	"refbot/core/cmd"
	"refbot/internal/app"
)

func main() {
	// Local runs keep secrets in .env; deployed hosts inject real env vars.
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded .env")
	}

	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("bot exited: %v", err)
	}
}
