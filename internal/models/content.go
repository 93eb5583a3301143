package models

// Content is one named section of site copy. Sections are never removed, only deactivated.
type Content struct {
	Base        `bson:",inline"`
	Section     string  `bson:"section"     json:"section"`
	Title       string  `bson:"title"       json:"title"`
	Subtitle    string  `bson:"subtitle"    json:"subtitle"`
	Description string  `bson:"description" json:"description"`
	Content     Payload `bson:"content"     json:"content"`
	Metadata    Payload `bson:"metadata"    json:"metadata"`
	IsActive    bool    `bson:"isActive"    json:"isActive"`
}
