package database

import (
	"context"
	"os"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// OpenRedis connects to the ranking/analytics store
// (the JWT registry uses its own connection, see the authentication package)
func OpenRedis() (*redis.Client, error) {

	dsn := os.Getenv("CACHE_HOST") + ":" + os.Getenv("CACHE_PORT")

	dbID, err := strconv.Atoi(os.Getenv("ANALYTICS_DB"))
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     dsn,
		Password: os.Getenv("CACHE_PASS"),
		DB:       dbID,
	})

	var ctx = context.Background()
	_, err = client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	return client, nil
}
