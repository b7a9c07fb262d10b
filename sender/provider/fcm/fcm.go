package fcm

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/chatwire/push-relay/domain"
	"github.com/chatwire/push-relay/sender"
)

const CName = "push.provider.fcm"

var log = logger.NewNamed(CName)

func New() FCM {
	return new(fcm)
}

type FCM interface {
	app.Component
}

type fcm struct {
}

func (f *fcm) Init(a *app.App) (err error) {
	conf := a.MustComponent("config").(configSource).GetFCM()
	if conf.CredentialsFile == "" {
		log.Warn("fcm credentials are not configured, push sending disabled")
		return
	}
	provider, err := newSender(conf.CredentialsFile)
	if err != nil {
		return err
	}
	a.MustComponent(sender.CName).(sender.Sender).RegisterProvider(provider)
	return
}

func (f *fcm) Name() (name string) {
	return CName
}

func newSender(credentialsFile string) (sender.Provider, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	fcmApp, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, err
	}
	client, err := fcmApp.Messaging(context.Background())
	if err != nil {
		return nil, err
	}
	return &fcmSender{client: client}, nil
}

type fcmSender struct {
	client *messaging.Client
}

func (f *fcmSender) Send(ctx context.Context, push domain.Push) (deliveryId string, err error) {
	deliveryId, err = f.client.Send(ctx, buildFcmMessage(push))
	if err != nil {
		if messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err) {
			log.Info("mark token as invalid", zap.String("token", push.Token))
			return "", sender.ErrTokenInvalid
		}
		log.Warn("fcm returned error", zap.Error(err), zap.String("token", push.Token))
		return "", err
	}
	return
}

func buildFcmMessage(push domain.Push) *messaging.Message {
	return &messaging.Message{
		Token: push.Token,
		Notification: &messaging.Notification{
			Title: push.Title,
			Body:  push.Body,
		},
		Data: push.Data,
	}
}
