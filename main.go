package main

import (
	"fmt"
	"log"
	"time"

	"legit-poll/authentication"
	"legit-poll/database"
	"legit-poll/environment"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	router = gin.Default()
)

// runs BEFORE main - but the order of package inits is undefined!
func init() {
	// Load Config
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	// Connect to main database here (mongoDB)
	// the client is constructed once and handed to the models explicitly,
	// its lifecycle belongs to this entry point
	mongoClient, err := database.Open()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(mongoClient)

	// connect to JWT Store (redis)
	err = authentication.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer authentication.CloseConnection()

	// connect to ranking store (redis)
	redisClient, err := database.OpenRedis()
	if err != nil {
		log.Fatal(err)
	}
	defer redisClient.Close()

	// connect to analytics cache (influxDB)
	influxClient, err := database.OpenInflux()
	if err != nil {
		log.Fatal(err)
	}
	defer influxClient.Close()

	// Initialize the Models (includes the vote-uniqueness index)
	err = environment.Initialize(mongoClient, redisClient, influxClient)
	if err != nil {
		log.Fatal(err)
	}

	// periodic housekeeping: replicate aged visit counts, flush the
	// request registry
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			environment.Env.Tracker.Replicate()
			environment.Env.Requests.Flush()
		}
	}()

	fmt.Println("Legit-Poll running...")
	handleRequests()
}
