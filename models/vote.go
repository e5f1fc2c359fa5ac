package models

import (
	"context"
	"time"

	"legit-poll/apperror"
	"legit-poll/helpers"
	"legit-poll/lookups"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Vote represents a single vote record. There is at most one per
// (pollID, voterKey) pair - the unique index on the collection backs
// up the check-then-act sequence of CastVote under concurrent requests
type Vote struct {
	// ID ommitted, yet created in document
	PollID   primitive.ObjectID `json:"pollID" bson:"pollID"`
	UserID   primitive.ObjectID `json:"userID" bson:"userID"`
	VoterKey string             `json:"-" bson:"voterKey"` // digest of the durable user identifier
	Platform string             `json:"platform" bson:"platform"`
	Choice   string             `json:"choice" bson:"choice"`
	VoteTS   time.Time          `json:"voteTS" bson:"voteTS"`
}

// VoteModel provides the logics to the data type
type VoteModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection // vote records
	Polls      *mongo.Collection // tallies live inside the poll documents
}

// EnsureIndexes creates the unique (pollID, voterKey) index.
// Called once at startup
func (v VoteModel) EnsureIndexes() error {

	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "pollID", Value: 1},
			{Key: "voterKey", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := v.Collection.Indexes().CreateOne(ctx, model)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return nil
}

// CastVote applies a user's vote to a poll: one vote record plus the
// tally increments (provider bucket and overall), both inside a single
// transaction so no partial state survives a failure. Returns the
// updated tally.
func (v VoteModel) CastVote(pollID string, voter *User, choice string) (*Tally, error) {

	if choice != ChoiceOption1 && choice != ChoiceOption2 {
		return nil, ErrInvalidChoice
	}

	// a session whose platform is outside the fixed tally cannot be counted
	if !lookups.ValidPlatform(voter.Platform) {
		return nil, ErrUnknownPlatform
	}

	// one retry on transient transaction errors (write conflicts between
	// concurrent votes); everything else surfaces immediately
	var tally *Tally
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		tally, err = v.castVoteTxn(pollID, voter, choice)
		if err == nil || !isTransientTxn(err) {
			break
		}
	}

	return tally, err
}

func (v VoteModel) castVoteTxn(pollID string, voter *User, choice string) (*Tally, error) {

	oid := helpers.ObjectID(pollID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := v.Client.StartSession()
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	defer session.EndSession(ctx)

	var tally *Tally

	err = mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {

		if err := session.StartTransaction(); err != nil {
			return helpers.WrapError(err, helpers.FuncName())
		}

		t, err := v.applyVote(sc, oid, voter, choice)
		if err != nil {
			_ = session.AbortTransaction(sc)
			return err
		}

		if err := session.CommitTransaction(sc); err != nil {
			return helpers.WrapError(err, helpers.FuncName())
		}

		tally = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tally, nil
}

// applyVote runs inside the transaction
func (v VoteModel) applyVote(sc mongo.SessionContext, pollOID primitive.ObjectID, voter *User, choice string) (*Tally, error) {

	// 1. has this user voted already? (check-then-act, guarded by the txn
	// and - against the insert race - by the unique index)
	filter := bson.D{
		{Key: "pollID", Value: pollOID},
		{Key: "voterKey", Value: voter.VoterKey},
	}

	fields := bson.D{
		{Key: "_id", Value: 1},
	}

	err := v.Collection.FindOne(sc, filter, options.FindOne().SetProjection(fields)).Err()
	if err == nil {
		return nil, ErrAlreadyVoted
	}
	if err != mongo.ErrNoDocuments {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// 2. record the vote
	record := Vote{
		PollID:   pollOID,
		UserID:   voter.ID,
		VoterKey: voter.VoterKey,
		Platform: voter.Platform,
		Choice:   choice,
		VoteTS:   time.Now(),
	}

	_, err = v.Collection.InsertOne(sc, record)
	if err != nil {
		if isDupKey(err) {
			// a concurrent request from the same user won the race
			return nil, ErrAlreadyVoted
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// 3. increment the tally on the poll document - store-level $inc,
	// never read-modify-write, so concurrent votes of distinct users
	// cannot lose updates
	update := bson.D{
		{Key: "$inc", Value: bson.D{
			{Key: "votes." + voter.Platform + "." + choice, Value: 1},
			{Key: "votes." + voter.Platform + ".total", Value: 1},
			{Key: "votes.overall." + choice, Value: 1},
			{Key: "votes.overall.total", Value: 1},
			{Key: "totalEngagement", Value: 1},
		}},
		{Key: "$set", Value: bson.D{
			{Key: "lastActivity", Value: time.Now()},
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var poll Poll
	err = v.Polls.FindOneAndUpdate(sc, bson.M{"_id": pollOID}, update, opts).Decode(&poll)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// aborting the txn rolls the vote record back - no orphans
			return nil, ErrPollNotFound
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return &poll.Votes, nil
}

// GetUserVote returns the choice a user made on a poll
// (apperror.ErrNoData if the user did not vote)
func (v VoteModel) GetUserVote(pollID string, voterKey string) (string, error) {

	filter := bson.D{
		{Key: "pollID", Value: helpers.ObjectID(pollID)},
		{Key: "voterKey", Value: voterKey},
	}

	fields := bson.D{
		{Key: "_id", Value: 0},
		{Key: "choice", Value: 1},
	}

	opts := options.FindOne().SetProjection(fields)

	data := struct {
		Choice string `bson:"choice"`
	}{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := v.Collection.FindOne(ctx, filter, opts).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", apperror.ErrNoData
		}
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return data.Choice, nil
}

// isDupKey reports whether an insert hit the unique index
func isDupKey(err error) bool {
	we, ok := err.(mongo.WriteException)
	if !ok {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == 11000 {
			return true
		}
	}
	return false
}

// isTransientTxn reports whether a transaction may be retried.
// The labels arrive on different error shapes depending on which statement
// conflicted (CommandError from commands, WriteException from the inserts),
// so the check goes through the shared label interface
func isTransientTxn(err error) bool {
	if se, ok := err.(*helpers.SystemError); ok {
		err = se.Err
	}
	le, ok := err.(interface{ HasErrorLabel(string) bool })
	if !ok {
		return false
	}
	return le.HasErrorLabel("TransientTransactionError") ||
		le.HasErrorLabel("UnknownTransactionCommitResult")
}
