package domain

const maxSummaryLen = 100

// Summary builds the human-readable notification body for a chat message.
// Media types get a fixed label, text is truncated to maxSummaryLen.
func Summary(message, messageType string) string {
	switch messageType {
	case "image":
		return "📷 Sent an image"
	case "video":
		return "🎥 Sent a video"
	case "audio":
		return "🎤 Sent an audio message"
	case "document":
		return "📄 Sent a document"
	case "location":
		return "📍 Shared a location"
	}
	if message == "" {
		return "New message"
	}
	if len(message) > maxSummaryLen {
		return message[:maxSummaryLen] + "..."
	}
	return message
}
