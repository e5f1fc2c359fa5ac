package models

import (
	"context"
	"strings"
	"time"

	"legit-poll/helpers"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Identity is what an identity provider adapter hands over after it
// exchanged the authorization code and normalized the profile fields
type Identity struct {
	Platform    string `json:"platform"` // provider tag, see lookups
	Subject     string `json:"subject"`  // provider-specific stable account id
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar"`
	Verified    bool   `json:"verified"`
}

// VoterKey derives the durable identifier used for vote de-duplication.
// Precedence: the provider's stable subject id, then e-mail, then username.
// The subject is preferred because neither e-mail nor display name is
// guaranteed stable across logins for every provider.
func (i Identity) VoterKey() string {
	id := strings.TrimSpace(i.Subject)
	if id == "" {
		id = strings.TrimSpace(i.Email)
	}
	if id == "" {
		id = strings.TrimSpace(i.Username)
	}
	if id == "" {
		return ""
	}
	return i.Platform + ":" + id
}

// User is the stored account document, upserted on every login
type User struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Platform    string             `json:"platform" bson:"platform"`
	Subject     string             `json:"-" bson:"subject"`
	Username    string             `json:"username" bson:"username"`
	DisplayName string             `json:"displayName" bson:"displayName"`
	Email       string             `json:"-" bson:"email"` // not sent to clients
	Avatar      string             `json:"avatar" bson:"avatar"`
	Verified    bool               `json:"verified" bson:"verified"`
	VoterKey    string             `json:"-" bson:"voterKey"` // digest, see helpers.DigestKey
	CreatedTS   time.Time          `json:"createdTS" bson:"createdTS"`
	LastSeenTS  time.Time          `json:"lastSeenTS" bson:"lastSeenTS"`
}

// UserModel provides the logics to the data type
type UserModel struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// UpsertIdentity registers or refreshes a provider account after a
// successful login and returns the stored document
func (m UserModel) UpsertIdentity(identity Identity) (*User, error) {

	key := identity.VoterKey()
	if key == "" {
		return nil, ErrInvalidUser
	}

	filter := bson.D{
		{Key: "platform", Value: identity.Platform},
		{Key: "subject", Value: identity.Subject},
	}

	now := time.Now()

	fields := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "platform", Value: identity.Platform},
			{Key: "subject", Value: identity.Subject},
			{Key: "username", Value: identity.Username},
			{Key: "displayName", Value: identity.DisplayName},
			{Key: "email", Value: identity.Email},
			{Key: "avatar", Value: identity.Avatar},
			{Key: "verified", Value: identity.Verified},
			{Key: "voterKey", Value: helpers.DigestKey(key)},
			{Key: "lastSeenTS", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "createdTS", Value: now},
		}},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user User
	err := m.Collection.FindOneAndUpdate(ctx, filter, fields, opts).Decode(&user)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return &user, nil
}

// GetUserByID loads an account document (userID usually comes from the token)
func (m UserModel) GetUserByID(userID string) (*User, error) {

	oid := helpers.ObjectID(userID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user User
	err := m.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidUser
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return &user, nil
}

// GetUserName resolves the display handle of an account
// (injected into other models so they need not know this one)
func (m UserModel) GetUserName(userID string) (string, error) {

	fields := bson.D{
		{Key: "_id", Value: 0},
		{Key: "username", Value: 1},
	}

	opts := options.FindOne().SetProjection(fields)

	data := struct {
		Username string `bson:"username"`
	}{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := m.Collection.FindOne(ctx, bson.M{"_id": helpers.ObjectID(userID)}, opts).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrInvalidUser
		}
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return data.Username, nil
}

// SetLastSeen touches the account's activity timestamp (fire-and-forget)
func (m UserModel) SetLastSeen(userOID primitive.ObjectID) {

	fields := bson.D{
		{Key: "$set", Value: bson.D{{Key: "lastSeenTS", Value: time.Now()}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// not interested in the result; a missed touch is no error
	_, _ = m.Collection.UpdateOne(ctx, bson.M{"_id": userOID}, fields)
}
