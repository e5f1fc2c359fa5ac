package database

import (
	"context"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
)

type InfluxAPI struct {
	WriteAPI api.WriteAPIBlocking // ToDo: auf non-blocking umstellen
	QueryAPI api.QueryAPI
}

// OpenInflux connects to the analytics cache
func OpenInflux() (influxdb2.Client, error) {
	url := os.Getenv("ANALYTICS_URL")
	token := os.Getenv("ANALYTICS_TOKEN")

	client := influxdb2.NewClient(url, token)
	client.Options().SetPrecision(time.Second)

	// check if alright so far
	var ctx = context.Background()
	_, err := client.Ready(ctx)
	if err != nil {
		return nil, err
	}

	return client, nil
}
