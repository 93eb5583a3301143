package models

var BlogCategories = []string{
	"Shopify",
	"Development",
	"E-commerce",
	"Tutorials",
	"Tips & Tricks",
	"Case Studies",
	"News",
	"Other",
}

var ProjectCategories = []string{
	"Fashion E-commerce",
	"Beauty & Wellness",
	"Jewelry",
	"Home Decor",
	"Electronics",
	"Food & Beverage",
	"Sports & Fitness",
	"Other",
}

var SkillCategories = []string{"Shopify", "Frontend", "Backend", "Tools", "Other"}

var ContentSections = []string{"hero", "about", "services", "portfolio", "skills", "contact", "footer"}

const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

var ContactStatuses = []string{ContactStatusNew, ContactStatusRead, ContactStatusReplied, ContactStatusArchived}

const (
	EventPageview   = "pageview"
	EventClick      = "click"
	EventFormSubmit = "form_submit"
	EventDownload   = "download"
)

var EventTypes = []string{EventPageview, EventClick, EventFormSubmit, EventDownload}

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

var Roles = []string{RoleAdmin, RoleEditor, RoleViewer}

// IsOneOf reports whether v is in set.
func IsOneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// IsContentSection reports whether name is a known content section.
func IsContentSection(name string) bool {
	return IsOneOf(name, ContentSections)
}
