package domain

const DefaultDeviceType = "unknown"

// Profile is the per-user record in the profile store. The push token is
// overwritten wholesale on every update, other fields keep field-level merge
// semantics.
type Profile struct {
	Id           string `bson:"_id"`
	PushToken    string `bson:"pushToken,omitempty"`
	DeviceType   string `bson:"deviceType"`
	Online       bool   `bson:"online"`
	ActiveChatId string `bson:"activeChatId,omitempty"`
	TokenUpdated int64  `bson:"tokenUpdated"`
	LastActive   int64  `bson:"lastActive"`
	Created      int64  `bson:"created"`
}

// ShouldSuppress reports whether a push for the given chat would be redundant:
// the user is online with exactly that conversation open. An empty
// activeChatId never matches.
func (p Profile) ShouldSuppress(chatId string) bool {
	return p.Online && p.ActiveChatId != "" && p.ActiveChatId == chatId
}
