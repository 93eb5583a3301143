package models

type Skill struct {
	Base       `bson:",inline"`
	Name       string `bson:"name"       json:"name"`
	Category   string `bson:"category"   json:"category"`
	Percentage int    `bson:"percentage" json:"percentage"`
	Icon       string `bson:"icon"       json:"icon"`
	Order      int    `bson:"order"      json:"order"`
}
