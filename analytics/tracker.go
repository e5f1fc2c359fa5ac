package analytics

import (
	"context"
	"fmt"
	"os"
	"time"

	"legit-poll/apperror"
	"legit-poll/client"
	"legit-poll/database"
	"legit-poll/helpers"

	"github.com/go-redis/redis/v8"
	influxdb2 "github.com/influxdata/influxdb-client-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// hot-score weights: a vote moves a poll more than a mere view
const (
	weightVisit = 1
	weightVote  = 3
)

const hotKey = "poll:hot" // redis sorted set

// Tracker gathers engagement events (poll visits and votes).
// Raw visit events go to the analytics cache (influxDB, bounded retention);
// the ranking lives in redis; counts are replicated into the poll
// documents periodically.
type Tracker struct {
	influxClient influxdb2.Client
	VisitorAPI   database.InfluxAPI
	redisClient  *redis.Client
	polls        *mongo.Collection
	Requests     *client.Registry
}

// SetConnections initializes the instance
func (t *Tracker) SetConnections(influxClient influxdb2.Client, visitorAPI database.InfluxAPI,
	redisClient *redis.Client, polls *mongo.Collection) {
	t.influxClient = influxClient
	t.VisitorAPI = visitorAPI
	t.redisClient = redisClient
	t.polls = polls
}

// SaveVisit stores a poll view in the analytics cache and bumps the
// hot ranking. Page refreshes of the same client are suppressed via the
// request registry. Fire-and-forget - a lost event never fails a request.
func (t *Tracker) SaveVisit(clientIP string, pollID string, userID string) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	// same client re-reading the same poll is not a new visit
	if !t.Requests.Continue(clientIP, pollID) {
		return
	}

	p := influxdb2.NewPoint(
		"visit",
		map[string]string{"pollId": pollID},
		map[string]interface{}{"userId": userID},
		time.Now())

	// ToDo: log Error
	_ = t.VisitorAPI.WriteAPI.WritePoint(context.Background(), p)

	t.bump(pollID, weightVisit)
}

// SaveVote bumps the hot ranking after a successful vote
// (the vote itself is persisted by the vote model)
func (t *Tracker) SaveVote(pollID string) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	t.bump(pollID, weightVote)
}

func (t *Tracker) bump(pollID string, weight float64) {

	var ctx = context.Background()

	err := t.redisClient.ZIncrBy(ctx, hotKey, weight, pollID).Err()
	if err != nil {
		fmt.Println(err) // ToDo: log
	}
}

// TopPolls returns the ids of the hottest polls, best first
// (apperror.ErrNoData while no ranking exists or analytics is off)
func (t *Tracker) TopPolls(n int64) ([]string, error) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return nil, apperror.ErrNoData
	}

	var ctx = context.Background()

	ids, err := t.redisClient.ZRevRange(ctx, hotKey, 0, n-1).Result()
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if len(ids) == 0 {
		return nil, apperror.ErrNoData
	}

	return ids, nil
}

// GetVisits counts the number of visits of a poll
// the value is "live" - read from the analytics cache (influxDB)
// which is set to a maximum period (TTL) of 30 days
func (t *Tracker) GetVisits(pollID string, startDT time.Time) (int64, error) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return -1, nil
	}

	flux := `from(bucket: "%s")
		|> range(start: %s)
		|> filter(fn: (r) => r["_measurement"] == "visit" and r["pollId"] == "%s")
		|> count()
		|> yield(name: "count")`

	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_VISITORS_BUCKET"),
		startDT.Format(time.RFC3339),
		pollID)

	result, err := t.VisitorAPI.QueryAPI.Query(context.Background(), flux)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	// single record
	var res interface{}
	for result.Next() {
		res = result.Record().Value()
	}

	var cnt int64 = 0
	if res != nil {
		cnt = res.(int64)
	}

	return cnt, nil
}

// Replicate moves aged visit counts from the cache (influxDB) into the
// poll documents (Mongo). Usually called by a GO-routine in a ticker.
func (t *Tracker) Replicate() {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	ctx := context.Background()

	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Now().UTC().Location()) // just start somewhere as the minimum date
	stop := time.Now().AddDate(0, -1, 0)                                    // move everything older than one month

	flux := `from(bucket: "%s")
	|> range(start: %s, stop: %s)
	|> filter(fn: (r) => r["_measurement"] == "visit")
	|> count()
	|> yield(name: "count")`

	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_VISITORS_BUCKET"),
		start.Format(time.RFC3339),
		stop.Format(time.RFC3339))

	result, err := t.VisitorAPI.QueryAPI.Query(ctx, flux)
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	// create an update model per poll document
	var opModels []mongo.WriteModel
	for result.Next() {
		operation := bson.D{
			{Key: "$inc", Value: bson.D{
				{Key: "visits", Value: result.Record().Value()}, // value of the projection function (count)
			}},
		}

		opModel := mongo.NewUpdateOneModel()
		opModel.SetFilter(bson.D{{Key: "_id", Value: helpers.ObjectID(
			result.Record().ValueByKey("pollId").(string))}}).SetUpdate(operation)

		opModels = append(opModels, opModel)
	}

	// abort if no data to process
	if len(opModels) == 0 {
		fmt.Printf("%v: %v poll visit(s) replicated.\n", time.Now().Format(time.RFC3339), 0)
		return
	}

	opts := options.BulkWrite().SetOrdered(false)

	var cnt int64 = 0
	res, err := t.polls.BulkWrite(ctx, opModels, opts)
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
	} else {
		cnt = res.MatchedCount
	}

	// ToDo: could be logged
	fmt.Printf("%v: %v poll visit(s) replicated.\n", time.Now().Format(time.RFC3339), cnt)

	// deleting the transferred range is handled by the bucket's retention policy
}
