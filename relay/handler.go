package relay

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/anyproto/any-sync/metric"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chatwire/push-relay/repo/profilerepo"
	"github.com/chatwire/push-relay/sender"
)

const apiVersion = "1.0.0"

var endpoints = map[string]string{
	"GET /health":                  "liveness and integration status",
	"GET /":                        "api info",
	"POST /send-notification":      "relay a chat push notification",
	"POST /user/:userId/fcm-token": "register or update a push token",
	"POST /user/:userId/presence":  "update online state and active chat",
}

type handler struct {
	r *relay
}

func (h *handler) register(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/", h.Index)
	router.POST("/send-notification", h.SendNotification)
	router.POST("/user/:userId/fcm-token", h.UpdateToken)
	router.POST("/user/:userId/presence", h.SetPresence)
	router.NoRoute(h.NotFound)
}

func (h *handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                "ok",
		"message":               "push relay is running",
		"firebase_enabled":      h.r.sender.Enabled(),
		"profile_store_enabled": h.r.profileRepo.Enabled(),
		"timestamp":             time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":          "chat push relay api",
		"version":          apiVersion,
		"endpoints":        endpoints,
		"firebase_enabled": h.r.sender.Enabled(),
	})
}

func (h *handler) SendNotification(c *gin.Context) {
	st := time.Now()
	var err error
	defer func() {
		h.requestLog(c, "relay.sendNotification", st, err)
	}()

	var req Notification
	if err = c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid json body",
		})
		return
	}
	if missing := missingFields(req); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"error":    "missing required fields",
			"missing":  missing,
			"required": []string{"receiverId", "senderId", "senderName", "message", "chatId"},
		})
		return
	}

	var res SendResult
	res, err = h.r.SendNotification(c.Request.Context(), req)
	switch {
	case errors.Is(err, profilerepo.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success":    false,
			"error":      "receiver not found",
			"receiverId": req.ReceiverId,
		})
	case errors.Is(err, ErrNoToken):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"error":      "no push token registered for receiver",
			"receiverId": req.ReceiverId,
		})
	case errors.Is(err, sender.ErrTokenInvalid):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"error":      "push token is no longer valid, re-registration required",
			"code":       "TOKEN_INVALID",
			"receiverId": req.ReceiverId,
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to send notification",
			"detail":  err.Error(),
		})
	case res.Skipped:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"skipped": true,
			"message": "receiver is already viewing this chat",
		})
	case res.Degraded:
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"delivered": false,
			"degraded":  true,
			"ackId":     res.AckId,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"delivered":  true,
			"deliveryId": res.DeliveryId,
		})
	}
}

func (h *handler) UpdateToken(c *gin.Context) {
	st := time.Now()
	var err error
	defer func() {
		h.requestLog(c, "relay.updateToken", st, err)
	}()

	userId := c.Param("userId")
	var req struct {
		FcmToken   string `json:"fcmToken"`
		DeviceType string `json:"deviceType"`
	}
	if err = c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid json body",
		})
		return
	}
	if req.FcmToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "missing required fields",
			"missing": []string{"fcmToken"},
		})
		return
	}

	var res TokenResult
	res, err = h.r.UpdateToken(c.Request.Context(), userId, req.FcmToken, req.DeviceType)
	switch {
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to update token",
			"userId":  userId,
			"detail":  err.Error(),
		})
	case res.Degraded:
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"persisted":  false,
			"degraded":   true,
			"userId":     userId,
			"deviceType": res.DeviceType,
			"ackId":      res.AckId,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"userId":     userId,
			"deviceType": res.DeviceType,
		})
	}
}

func (h *handler) SetPresence(c *gin.Context) {
	st := time.Now()
	var err error
	defer func() {
		h.requestLog(c, "relay.setPresence", st, err)
	}()

	userId := c.Param("userId")
	var req struct {
		Online       bool   `json:"online"`
		ActiveChatId string `json:"activeChatId"`
	}
	if err = c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid json body",
		})
		return
	}

	var degraded bool
	degraded, err = h.r.SetPresence(c.Request.Context(), userId, req.Online, req.ActiveChatId)
	switch {
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "failed to update presence",
			"userId":  userId,
			"detail":  err.Error(),
		})
	case degraded:
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"persisted": false,
			"degraded":  true,
			"userId":    userId,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"userId":  userId,
			"online":  req.Online,
		})
	}
}

func (h *handler) NotFound(c *gin.Context) {
	valid := make([]string, 0, len(endpoints))
	for route := range endpoints {
		valid = append(valid, route)
	}
	sort.Strings(valid)
	c.JSON(http.StatusNotFound, gin.H{
		"success":   false,
		"error":     "route not found",
		"endpoints": valid,
	})
}

func (h *handler) requestLog(c *gin.Context, rpc string, st time.Time, err error) {
	if h.r.metric == nil {
		return
	}
	h.r.metric.RequestLog(c.Request.Context(), rpc,
		metric.TotalDur(time.Since(st)),
		zap.String("addr", c.ClientIP()),
		zap.Error(err),
	)
}

func missingFields(n Notification) (missing []string) {
	if n.ReceiverId == "" {
		missing = append(missing, "receiverId")
	}
	if n.SenderId == "" {
		missing = append(missing, "senderId")
	}
	if n.SenderName == "" {
		missing = append(missing, "senderName")
	}
	if n.Message == "" {
		missing = append(missing, "message")
	}
	if n.ChatId == "" {
		missing = append(missing, "chatId")
	}
	return
}
