package models

// AnalyticsRetentionSeconds is how long events live before the TTL index removes them (90 days).
const AnalyticsRetentionSeconds = 90 * 24 * 60 * 60

const DirectReferrer = "direct"

type AnalyticsEvent struct {
	Base      `bson:",inline"`
	Type      string  `bson:"type"                json:"type"`
	Page      string  `bson:"page"                json:"page"`
	Referrer  string  `bson:"referrer"            json:"referrer"`
	IPAddress string  `bson:"ipAddress"           json:"ipAddress"`
	UserAgent string  `bson:"userAgent"           json:"userAgent"`
	SessionID string  `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
	Metadata  Payload `bson:"metadata,omitempty"  json:"metadata,omitempty"`
}
