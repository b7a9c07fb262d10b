package relay

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/chatwire/push-relay/api"
	"github.com/chatwire/push-relay/domain"
	"github.com/chatwire/push-relay/repo/profilerepo"
	"github.com/chatwire/push-relay/sender"
)

const CName = "relay"

var log = logger.NewNamed(CName)

const (
	storeTimeout  = time.Second * 5
	senderTimeout = time.Second * 10
)

var ErrNoToken = errors.New("no push token registered for receiver")

func New() Relay {
	return new(relay)
}

type Relay interface {
	app.Component
}

// Notification is the inbound chat-message event. All fields except
// MessageType are required.
type Notification struct {
	ReceiverId  string `json:"receiverId"`
	SenderId    string `json:"senderId"`
	SenderName  string `json:"senderName"`
	Message     string `json:"message"`
	ChatId      string `json:"chatId"`
	MessageType string `json:"messageType"`
}

type SendResult struct {
	Delivered  bool
	Skipped    bool
	Degraded   bool
	DeliveryId string
	AckId      string
}

type TokenResult struct {
	DeviceType string
	Degraded   bool
	AckId      string
}

type relay struct {
	profileRepo profilerepo.ProfileRepo
	sender      sender.Sender
	metric      metric.Metric
	handler     *handler
}

func (r *relay) Init(a *app.App) (err error) {
	r.profileRepo = a.MustComponent(profilerepo.CName).(profilerepo.ProfileRepo)
	r.sender = a.MustComponent(sender.CName).(sender.Sender)
	if m := a.Component(metric.CName); m != nil {
		r.metric = m.(metric.Metric)
	}
	r.handler = &handler{r: r}
	r.handler.register(a.MustComponent(api.CName).(api.Api).Router())
	return
}

func (r *relay) Name() (name string) {
	return CName
}

func (r *relay) SendNotification(ctx context.Context, n Notification) (res SendResult, err error) {
	if n.MessageType == "" {
		n.MessageType = "text"
	}
	if !r.profileRepo.Enabled() {
		res = SendResult{Degraded: true, AckId: newAckId()}
		log.Info("profile store disabled, notification logged only",
			zap.String("receiverId", n.ReceiverId),
			zap.String("chatId", n.ChatId),
			zap.String("ackId", res.AckId),
		)
		return
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	profile, err := r.profileRepo.GetProfile(storeCtx, n.ReceiverId)
	cancel()
	if err != nil {
		return
	}
	if profile.PushToken == "" {
		return res, ErrNoToken
	}
	if profile.ShouldSuppress(n.ChatId) {
		log.Debug("push suppressed, receiver is viewing the chat",
			zap.String("receiverId", n.ReceiverId),
			zap.String("chatId", n.ChatId),
		)
		return SendResult{Skipped: true}, nil
	}

	if !r.sender.Enabled() {
		res = SendResult{Degraded: true, AckId: newAckId()}
		log.Info("push sender disabled, notification logged only",
			zap.String("receiverId", n.ReceiverId),
			zap.String("ackId", res.AckId),
		)
		return
	}

	push := domain.Push{
		Token: profile.PushToken,
		Title: n.SenderName,
		Body:  domain.Summary(n.Message, n.MessageType),
		Data: map[string]string{
			"type":         "chat_message",
			"chatId":       n.ChatId,
			"senderId":     n.SenderId,
			"senderName":   n.SenderName,
			"messageType":  n.MessageType,
			"click_action": "FLUTTER_NOTIFICATION_CLICK",
		},
	}
	sendCtx, cancelSend := context.WithTimeout(ctx, senderTimeout)
	defer cancelSend()
	deliveryId, err := r.sender.Send(sendCtx, push)
	if err != nil {
		return
	}
	return SendResult{Delivered: true, DeliveryId: deliveryId}, nil
}

func (r *relay) UpdateToken(ctx context.Context, userId, token, deviceType string) (res TokenResult, err error) {
	if deviceType == "" {
		deviceType = domain.DefaultDeviceType
	}
	res.DeviceType = deviceType
	if !r.profileRepo.Enabled() {
		res.Degraded = true
		res.AckId = newAckId()
		log.Info("profile store disabled, token update not persisted",
			zap.String("userId", userId),
			zap.String("ackId", res.AckId),
		)
		return
	}
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	err = r.profileRepo.UpdateToken(storeCtx, userId, token, deviceType)
	return
}

func (r *relay) SetPresence(ctx context.Context, userId string, online bool, activeChatId string) (degraded bool, err error) {
	if !r.profileRepo.Enabled() {
		log.Info("profile store disabled, presence update not persisted", zap.String("userId", userId))
		return true, nil
	}
	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return false, r.profileRepo.SetPresence(storeCtx, userId, online, activeChatId)
}

// newAckId returns a short opaque id for degraded-mode acknowledgements so
// callers can correlate them with server logs.
func newAckId() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return base58.Encode(b)
}
