package models

import (
	"errors"
	"testing"

	"legit-poll/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// CastVote validates choice and platform before it touches the store,
// so these paths run against a zero-value model

func TestCastVoteRejectsInvalidChoice(t *testing.T) {
	v := VoteModel{}
	voter := &User{Platform: "twitter"}

	for _, choice := range []string{"maybe", "", "Option1", "yes"} {
		_, err := v.CastVote("6055d819671e62579fcc2151", voter, choice)
		assert.Equal(t, ErrInvalidChoice, err, "choice: %q", choice)
	}
}

func TestCastVoteRejectsUnknownPlatform(t *testing.T) {
	v := VoteModel{}
	voter := &User{Platform: "google"}

	_, err := v.CastVote("6055d819671e62579fcc2151", voter, ChoiceOption1)
	require.Equal(t, ErrUnknownPlatform, err)
}

func TestIsTransientTxn(t *testing.T) {
	assert.False(t, isTransientTxn(errors.New("some error")))
	assert.False(t, isTransientTxn(ErrAlreadyVoted))
	assert.False(t, isTransientTxn(nil))

	// command shape (eg. the commit)
	cmdErr := mongo.CommandError{Labels: []string{"TransientTransactionError"}}
	assert.True(t, isTransientTxn(cmdErr))
	assert.True(t, isTransientTxn(helpers.WrapError(cmdErr, "models.VoteModel.castVoteTxn")))

	// write conflicts on the inserts surface as WriteException
	we := mongo.WriteException{Labels: []string{"TransientTransactionError"}}
	assert.True(t, isTransientTxn(we))
	assert.True(t, isTransientTxn(helpers.WrapError(we, "models.VoteModel.applyVote")))

	assert.True(t, isTransientTxn(mongo.CommandError{Labels: []string{"UnknownTransactionCommitResult"}}))
	assert.True(t, isTransientTxn(mongo.WriteException{Labels: []string{"UnknownTransactionCommitResult"}}))

	// label-carrying but not retryable
	assert.False(t, isTransientTxn(mongo.WriteException{Labels: []string{"RetryableWriteError"}}))
	assert.False(t, isTransientTxn(mongo.CommandError{}))
}

func TestIsDupKey(t *testing.T) {
	assert.False(t, isDupKey(errors.New("some error")))
	assert.False(t, isDupKey(nil))

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	assert.True(t, isDupKey(dup))
}

// the transaction sequencing (check -> insert -> $inc -> commit/abort) is
// exercised against the driver's mocked deployment

func mockVoteModel(mt *mtest.T) VoteModel {
	db := mt.Client.Database("legitpoll")
	return VoteModel{
		Client:     mt.Client,
		Collection: db.Collection("votes"),
		Polls:      db.Collection("polls"),
	}
}

func testVoter() *User {
	return &User{
		ID:       primitive.NewObjectID(),
		Platform: "reddit",
		VoterKey: helpers.DigestKey("reddit:abc9x"),
	}
}

func emptyVoteLookup() bson.D {
	return mtest.CreateCursorResponse(0, "legitpoll.votes", mtest.FirstBatch)
}

func pollAfterUpdate() bson.D {
	bucket := func(o1, o2 int64) bson.D {
		return bson.D{
			{Key: "option1", Value: o1},
			{Key: "option2", Value: o2},
			{Key: "total", Value: o1 + o2},
		}
	}
	return bson.D{
		{Key: "_id", Value: helpers.ObjectID("6055d819671e62579fcc2151")},
		{Key: "question", Value: "Is rust better than go?"},
		{Key: "votes", Value: bson.D{
			{Key: "twitter", Value: bucket(0, 0)},
			{Key: "reddit", Value: bucket(1, 0)},
			{Key: "overall", Value: bucket(1, 0)},
		}},
	}
}

func TestCastVoteExistingVoteShortCircuits(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("existing vote aborts before any write", func(mt *mtest.T) {
		v := mockVoteModel(mt)

		mt.AddMockResponses(
			// lookup finds a previous vote record
			mtest.CreateCursorResponse(0, "legitpoll.votes", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}}),
			mtest.CreateSuccessResponse(), // abortTransaction
		)

		tally, err := v.CastVote("6055d819671e62579fcc2151", testVoter(), ChoiceOption1)
		assert.Nil(t, tally)
		assert.Equal(t, ErrAlreadyVoted, err)

		// neither the vote insert nor the tally update may have been issued
		for _, evt := range mt.GetAllStartedEvents() {
			assert.NotEqual(t, "insert", evt.CommandName)
			assert.NotEqual(t, "findAndModify", evt.CommandName)
		}
	})
}

func TestCastVoteMissingPollAbortsTxn(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("missing poll rolls the vote record back", func(mt *mtest.T) {
		v := mockVoteModel(mt)

		mt.AddMockResponses(
			emptyVoteLookup(),             // no previous vote
			mtest.CreateSuccessResponse(), // vote insert
			mtest.CreateSuccessResponse(), // findAndModify without a value: no such poll
			mtest.CreateSuccessResponse(), // abortTransaction
		)

		tally, err := v.CastVote("6055d819671e62579fcc2151", testVoter(), ChoiceOption2)
		assert.Nil(t, tally)
		assert.Equal(t, ErrPollNotFound, err)

		// the insert ran inside the txn and the txn was rolled back,
		// so no orphan vote record survives
		var aborted, committed bool
		for _, evt := range mt.GetAllStartedEvents() {
			switch evt.CommandName {
			case "abortTransaction":
				aborted = true
			case "commitTransaction":
				committed = true
			}
		}
		assert.True(t, aborted)
		assert.False(t, committed)
	})
}

func TestCastVoteReturnsUpdatedTally(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("committed vote yields the post-increment tally", func(mt *mtest.T) {
		v := mockVoteModel(mt)

		mt.AddMockResponses(
			emptyVoteLookup(),
			mtest.CreateSuccessResponse(), // vote insert
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: pollAfterUpdate()}),
			mtest.CreateSuccessResponse(), // commitTransaction
		)

		tally, err := v.CastVote("6055d819671e62579fcc2151", testVoter(), ChoiceOption1)
		require.NoError(t, err)
		require.NotNil(t, tally)

		assert.Equal(t, TallyBucket{Option1: 1, Option2: 0, Total: 1}, tally.Reddit)
		assert.Equal(t, TallyBucket{Option1: 1, Option2: 0, Total: 1}, tally.Overall)
		assert.Equal(t, TallyBucket{}, tally.Twitter)
	})
}

func TestCastVoteRetriesWriteConflict(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("transient write conflict is retried and succeeds", func(mt *mtest.T) {
		v := mockVoteModel(mt)

		mt.AddMockResponses(
			// first attempt: the insert collides with a concurrent txn
			emptyVoteLookup(),
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    112,
				Name:    "WriteConflict",
				Message: "write conflict",
				Labels:  []string{"TransientTransactionError"},
			}),
			mtest.CreateSuccessResponse(), // abortTransaction
			// second attempt goes through
			emptyVoteLookup(),
			mtest.CreateSuccessResponse(), // vote insert
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: pollAfterUpdate()}),
			mtest.CreateSuccessResponse(), // commitTransaction
		)

		tally, err := v.CastVote("6055d819671e62579fcc2151", testVoter(), ChoiceOption1)
		require.NoError(t, err)
		require.NotNil(t, tally)
		assert.Equal(t, int64(1), tally.Overall.Total)
	})
}
