//go:generate mockgen -destination mock_profilerepo/mock_profilerepo.go github.com/chatwire/push-relay/repo/profilerepo ProfileRepo

package profilerepo

import (
	"context"
	"errors"
	"time"

	"github.com/anyproto/any-sync/app"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chatwire/push-relay/db"
	"github.com/chatwire/push-relay/domain"
)

const CName = "push.profilerepo"

const collName = "profile"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrDisabled        = errors.New("profile store is disabled")
)

func New() ProfileRepo {
	return new(profileRepo)
}

type ProfileRepo interface {
	GetProfile(ctx context.Context, userId string) (profile domain.Profile, err error)
	// UpdateToken overwrites the push token wholesale and merges the rest of
	// the record, creating it on first use. Marks the user online for
	// compatibility with existing clients.
	UpdateToken(ctx context.Context, userId, token, deviceType string) (err error)
	SetPresence(ctx context.Context, userId string, online bool, activeChatId string) (err error)
	Enabled() bool
	app.ComponentRunnable
}

type profileRepo struct {
	coll *mongo.Collection
}

func (r *profileRepo) Init(a *app.App) (err error) {
	d := a.MustComponent(db.CName).(db.Database)
	if d.Enabled() {
		r.coll = d.Db().Collection(collName)
	}
	return
}

func (r *profileRepo) Name() (name string) {
	return CName
}

func (r *profileRepo) Run(ctx context.Context) error {
	if r.coll == nil {
		return nil
	}
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "lastActive", Value: 1}},
	})
	return err
}

func (r *profileRepo) Enabled() bool {
	return r.coll != nil
}

func (r *profileRepo) GetProfile(ctx context.Context, userId string) (profile domain.Profile, err error) {
	if r.coll == nil {
		return profile, ErrDisabled
	}
	err = r.coll.FindOne(ctx, bson.M{"_id": userId}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return profile, ErrProfileNotFound
	}
	return
}

func (r *profileRepo) UpdateToken(ctx context.Context, userId, token, deviceType string) (err error) {
	if r.coll == nil {
		return ErrDisabled
	}
	now := time.Now().Unix()
	opts := options.Update().SetUpsert(true)
	_, err = r.coll.UpdateByID(
		ctx,
		userId,
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "pushToken", Value: token},
				{Key: "deviceType", Value: deviceType},
				{Key: "online", Value: true},
				{Key: "tokenUpdated", Value: now},
				{Key: "lastActive", Value: now},
			}},
			{Key: "$setOnInsert", Value: bson.D{{Key: "created", Value: now}}},
		},
		opts,
	)
	return
}

func (r *profileRepo) SetPresence(ctx context.Context, userId string, online bool, activeChatId string) (err error) {
	if r.coll == nil {
		return ErrDisabled
	}
	now := time.Now().Unix()
	opts := options.Update().SetUpsert(true)
	_, err = r.coll.UpdateByID(
		ctx,
		userId,
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "online", Value: online},
				{Key: "activeChatId", Value: activeChatId},
				{Key: "lastActive", Value: now},
			}},
			{Key: "$setOnInsert", Value: bson.D{{Key: "created", Value: now}}},
		},
		opts,
	)
	return
}

func (r *profileRepo) Close(ctx context.Context) (err error) {
	return nil
}
