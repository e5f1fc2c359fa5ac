package models

import (
	"context"
	"strings"
	"time"
	"unicode"

	"legit-poll/helpers"
	"legit-poll/lookups"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// vote choices (the two fixed options of a poll)
const (
	ChoiceOption1 = "option1"
	ChoiceOption2 = "option2"
)

const slugMaxLen = 60

// TallyBucket holds the counters of one provider's slice of a tally.
// Invariant: Total == Option1 + Option2 (enforced by the $inc updates,
// which always bump a choice together with the total)
type TallyBucket struct {
	Option1 int64 `json:"option1" bson:"option1"`
	Option2 int64 `json:"option2" bson:"option2"`
	Total   int64 `json:"total" bson:"total"`
}

// Tally is a fixed record - one bucket per supported identity provider
// plus the overall sum. Adding a provider is a schema change here,
// not a silent new map key.
type Tally struct {
	Twitter TallyBucket `json:"twitter" bson:"twitter"`
	Reddit  TallyBucket `json:"reddit" bson:"reddit"`
	Overall TallyBucket `json:"overall" bson:"overall"`
}

// Bucket returns the tally slice of a provider tag (nil if unknown)
func (t *Tally) Bucket(platform string) *TallyBucket {
	switch platform {
	case lookups.PlatformTwitter:
		return &t.Twitter
	case lookups.PlatformReddit:
		return &t.Reddit
	}
	return nil
}

// Poll is the "interface" used for client communication
type Poll struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	Question        string             `json:"question" bson:"question" binding:"required"`
	Option1         string             `json:"option1" bson:"option1" binding:"required"`
	Option2         string             `json:"option2" bson:"option2" binding:"required"`
	URLSlug         string             `json:"urlSlug" bson:"urlSlug"` // display aid only, never a key
	CreatedBy       primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedName     string             `json:"createdName" bson:"createdName"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	IsActive        bool               `json:"isActive" bson:"isActive"`
	Votes           Tally              `json:"votes" bson:"votes"`
	CommentCount    int64              `json:"commentCount" bson:"commentCount"`
	TotalEngagement int64              `json:"totalEngagement" bson:"totalEngagement"`
	HotScore        float64            `json:"hotScore" bson:"hotScore"`
	LastActivity    time.Time          `json:"lastActivity" bson:"lastActivity"`
	Category        string             `json:"category" bson:"category"`
	Tags            []string           `json:"tags" bson:"tags"`
	Visits          int64              `json:"visits" bson:"visits"` // replicated from analytics store
}

// PollListItem is the reduced/simplified model used for listings
type PollListItem struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Question     string             `json:"question" bson:"question"`
	Option1      string             `json:"option1" bson:"option1"`
	Option2      string             `json:"option2" bson:"option2"`
	URLSlug      string             `json:"urlSlug" bson:"urlSlug"`
	CreatedName  string             `json:"createdName" bson:"createdName"`
	Votes        Tally              `json:"votes" bson:"votes"`
	CommentCount int64              `json:"commentCount" bson:"commentCount"`
	LastActivity time.Time          `json:"lastActivity" bson:"lastActivity"`
}

// PollModel provides the logic to the interface and access to the database
type PollModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// CreateURLSlug derives the display slug of a question: lower-cased,
// non-alphanumeric characters removed, whitespace runs collapsed to
// hyphens, truncated to 60 characters
func CreateURLSlug(question string) string {

	lowered := strings.ToLower(strings.TrimSpace(question))

	var b strings.Builder
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	slug := strings.Join(strings.Fields(b.String()), "-")
	if len(slug) > slugMaxLen {
		slug = slug[:slugMaxLen]
	}

	return slug
}

// Validate checks given values and sets defaults where applicable (immutable)
func (m PollModel) Validate(poll Poll) (*Poll, error) {

	cleaned := poll

	cleaned.Question = strings.TrimSpace(cleaned.Question)
	cleaned.Option1 = strings.TrimSpace(cleaned.Option1)
	cleaned.Option2 = strings.TrimSpace(cleaned.Option2)

	if cleaned.Question == "" || cleaned.Option1 == "" || cleaned.Option2 == "" {
		return nil, ErrPollFieldsMissing
	}

	return &cleaned, nil
}

// CreatePoll adds a new poll - validated by the caller via Validate.
// All tally buckets start zeroed; the slug is derived from the question
func (m PollModel) CreatePoll(poll *Poll) (string, error) {

	// set "system-fields"
	poll.ID = primitive.NewObjectID()
	poll.URLSlug = CreateURLSlug(poll.Question)
	poll.CreatedAt = time.Now()
	poll.IsActive = true
	poll.Votes = Tally{}
	poll.CommentCount = 0
	poll.TotalEngagement = 0
	poll.HotScore = 0
	poll.LastActivity = poll.CreatedAt
	if poll.Category == "" {
		poll.Category = "general"
	}
	if poll.Tags == nil {
		poll.Tags = []string{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := m.Collection.InsertOne(ctx, poll)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// GetPoll returns a poll's full state
func (m PollModel) GetPoll(pollID string) (*Poll, error) {

	oid := helpers.ObjectID(pollID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var poll Poll
	err := m.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&poll)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPollNotFound
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return &poll, nil
}

// ListPolls returns the newest-activity-first page of the feed
func (m PollModel) ListPolls() ([]PollListItem, error) {

	// use a projection to reduce the returned data for listings
	fields := bson.D{
		{Key: "_id", Value: 1},
		{Key: "question", Value: 1},
		{Key: "option1", Value: 1},
		{Key: "option2", Value: 1},
		{Key: "urlSlug", Value: 1},
		{Key: "createdName", Value: 1},
		{Key: "votes", Value: 1},
		{Key: "commentCount", Value: 1},
		{Key: "lastActivity", Value: 1},
	}

	sort := bson.D{
		{Key: "lastActivity", Value: -1},
	}

	opts := options.Find().SetProjection(fields).SetLimit(20).SetSort(sort)

	filter := bson.D{
		{Key: "isActive", Value: true},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var polls []PollListItem
	err = cursor.All(ctx, &polls)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// check for empty result set (no error raised by find)
	if polls == nil {
		return nil, nil
	}

	return polls, nil
}

// GetMany resolves a list of ids (eg. the trending ranking) preserving
// the given order
func (m PollModel) GetMany(pollIDs []string) ([]PollListItem, error) {

	if len(pollIDs) == 0 {
		return nil, nil
	}

	oids := make([]primitive.ObjectID, 0, len(pollIDs))
	for _, id := range pollIDs {
		oid := helpers.ObjectID(id)
		if oid != primitive.NilObjectID {
			oids = append(oids, oid)
		}
	}

	filter := bson.M{"_id": bson.M{"$in": oids}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := m.Collection.Find(ctx, filter)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var polls []PollListItem
	err = cursor.All(ctx, &polls)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// restore ranking order (the $in query returns storage order)
	byID := make(map[string]PollListItem, len(polls))
	for _, p := range polls {
		byID[p.ID.Hex()] = p
	}

	var ordered []PollListItem
	for _, id := range pollIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nil
}
