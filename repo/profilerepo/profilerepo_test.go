package profilerepo

import (
	"context"
	"testing"

	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatwire/push-relay/db"
)

var ctx = context.Background()

func TestProfileRepo_UpdateToken(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.UpdateToken(ctx, "u1", "tok123", "unknown"))
	profile, err := fx.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.Id)
	assert.Equal(t, "tok123", profile.PushToken)
	assert.Equal(t, "unknown", profile.DeviceType)
	assert.True(t, profile.Online)
	assert.NotZero(t, profile.TokenUpdated)
	assert.NotZero(t, profile.Created)
}

func TestProfileRepo_UpdateToken_Overwrite(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.UpdateToken(ctx, "u1", "tok1", "android"))
	require.NoError(t, fx.SetPresence(ctx, "u1", true, "chat1"))
	require.NoError(t, fx.UpdateToken(ctx, "u1", "tok2", "android"))
	profile, err := fx.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "tok2", profile.PushToken)
	// unrelated fields survive the token update
	assert.Equal(t, "chat1", profile.ActiveChatId)
}

func TestProfileRepo_SetPresence(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.UpdateToken(ctx, "u1", "tok1", "ios"))
	require.NoError(t, fx.SetPresence(ctx, "u1", false, ""))
	profile, err := fx.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, profile.Online)
	assert.Empty(t, profile.ActiveChatId)
	assert.Equal(t, "tok1", profile.PushToken)
}

func TestProfileRepo_GetProfile_NotFound(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.GetProfile(ctx, "nobody")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func newFixture(t testing.TB) *fixture {
	fx := &fixture{
		ProfileRepo: New(),
		a:           new(app.App),
	}
	fx.a.Register(&testConfig{
		Mongo: db.Mongo{
			Connect:  "mongodb://localhost:27017",
			Database: "pushrelay_unittest",
		},
	}).
		Register(db.New()).
		Register(fx.ProfileRepo)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		fx.finish(t)
	})
	return fx
}

type fixture struct {
	ProfileRepo
	a *app.App
}

func (fx *fixture) finish(t testing.TB) {
	_ = fx.ProfileRepo.(*profileRepo).coll.Drop(ctx)
	require.NoError(t, fx.a.Close(ctx))
}

type testConfig struct {
	Mongo db.Mongo
}

func (t testConfig) Init(a *app.App) (err error) {
	return
}

func (t testConfig) Name() (name string) {
	return "config"
}

func (t testConfig) GetMongo() db.Mongo {
	return t.Mongo
}
