package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"marche/stubserver"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	secret := os.Getenv("MARCHE_JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-this"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := stubserver.New(secret)

	log.Println("Stub storefront API starting on http://localhost:" + port)
	if err := srv.Router().Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
