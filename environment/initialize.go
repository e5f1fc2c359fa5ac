package environment

import (
	"os"

	"legit-poll/analytics"
	"legit-poll/client"
	"legit-poll/database"
	"legit-poll/models"

	"github.com/go-redis/redis/v8"
	influxdb2 "github.com/influxdata/influxdb-client-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Environment is used for dependency-injection (package de-coupling)
type Environment struct {
	Tracker   *analytics.Tracker
	Requests  *client.Registry
	UserModel models.UserModel
	PollModel models.PollModel
	VoteModel models.VoteModel
}

// newEnv operates as the constructor to initialize the collection references (private)
func newEnv(mongoClient *mongo.Client, redisClient *redis.Client, influxClient influxdb2.Client) *Environment {
	env := &Environment{}

	db := mongoClient.Database(os.Getenv("DB_NAME"))

	// the refresh-suppression registry feeds the engagement tracker
	env.Requests = new(client.Registry)
	env.Requests.Initialize()

	// prepare engagement gathering (poll visits & hot ranking)
	// always create the object so no further checking is needed in the models
	env.Tracker = new(analytics.Tracker)
	env.Tracker.Requests = env.Requests
	env.Tracker.SetConnections(
		influxClient,
		database.InfluxAPI{
			WriteAPI: influxClient.WriteAPIBlocking(os.Getenv("ANALYTICS_ORG"), os.Getenv("ANALYTICS_VISITORS_BUCKET")),
			QueryAPI: influxClient.QueryAPI(os.Getenv("ANALYTICS_ORG")),
		},
		redisClient,
		db.Collection("polls"))

	env.UserModel.Client = mongoClient
	env.UserModel.Collection = db.Collection("users")

	env.PollModel.Client = mongoClient
	env.PollModel.Collection = db.Collection("polls")

	env.VoteModel.Client = mongoClient
	env.VoteModel.Collection = db.Collection("votes")
	env.VoteModel.Polls = db.Collection("polls")

	return env
}

// Env is the singleton registry
var Env *Environment

// Initialize injects the database connections to the models.
// The clients are constructed and owned by the process entry point
// (do not confuse with package init)
func Initialize(mongoClient *mongo.Client, redisClient *redis.Client, influxClient influxdb2.Client) error {
	Env = newEnv(mongoClient, redisClient, influxClient)

	// the one-vote-per-user invariant rests on this index
	return Env.VoteModel.EnsureIndexes()
}
