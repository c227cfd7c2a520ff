package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnvFor(v string) (x string) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)

	if err != nil {
		log.Fatal("Unable to load .env file")
	}

	x = os.Getenv(v)
	return
}
