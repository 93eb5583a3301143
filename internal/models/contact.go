package models

import "time"

// Contact is a contact-form submission. Read-only once stored.
type Contact struct {
	Base      `bson:",inline"`
	Name      string     `bson:"name"                json:"name"`
	Email     string     `bson:"email"               json:"email"`
	Subject   string     `bson:"subject"             json:"subject"`
	Message   string     `bson:"message"             json:"message"`
	IPAddress string     `bson:"ipAddress"           json:"ipAddress"`
	UserAgent string     `bson:"userAgent"           json:"userAgent"`
	Status    string     `bson:"status"              json:"status"`
	Replied   bool       `bson:"replied"             json:"replied"`
	RepliedAt *time.Time `bson:"repliedAt,omitempty" json:"repliedAt,omitempty"`
}
