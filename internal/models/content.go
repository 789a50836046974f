package models

import "fmt"

// LanguageCode identifies one of the supported UI locales
type LanguageCode string

const (
	LanguageEN LanguageCode = "en"
	LanguageRU LanguageCode = "ru"
)

// DefaultLanguage is the selector value a fresh store starts with
const DefaultLanguage = LanguageRU

// Languages lists every supported code in display order
var Languages = []LanguageCode{LanguageEN, LanguageRU}

// IsValid reports whether the code is one of the supported languages
func (l LanguageCode) IsValid() bool {
	return l == LanguageEN || l == LanguageRU
}

// Other returns the language the header toggle switches to
func (l LanguageCode) Other() LanguageCode {
	if l == LanguageEN {
		return LanguageRU
	}
	return LanguageEN
}

// ContentTree holds every localized display string for one language
type ContentTree struct {
	Name      string          `json:"name"`
	Nav       NavContent      `json:"nav"`
	Hero      HeroContent     `json:"hero"`
	Projects  ProjectsContent `json:"projects"`
	About     AboutContent    `json:"about"`
	Contacts  ContactsContent `json:"contacts"`
	Challenge ChallengeText   `json:"challenge"`
}

// NavContent holds the header navigation labels
type NavContent struct {
	Projects   string `json:"projects"`
	About      string `json:"about"`
	Contacts   string `json:"contacts"`
	ContactBtn string `json:"contactBtn"`
}

// HeroContent holds the hero section strings
type HeroContent struct {
	Experience string `json:"experience"`
	Role       string `json:"role"`
}

// ProjectsContent holds the project gallery section
type ProjectsContent struct {
	Eyebrow  string         `json:"eyebrow"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Items    []ProjectEntry `json:"items"`
}

// ProjectEntry is one gallery card. Position i pairs with project image i.
type ProjectEntry struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Stats       *string `json:"stats,omitempty"`
	Link        *string `json:"link,omitempty"`
}

// AboutContent holds the bio section
type AboutContent struct {
	Eyebrow     string `json:"eyebrow"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ContactsContent holds the contact section and per-channel labels
type ContactsContent struct {
	Eyebrow   string `json:"eyebrow"`
	Title     string `json:"title"`
	Telegram  string `json:"telegram"`
	Email     string `json:"email"`
	LinkedIn  string `json:"linkedin"`
	WhatsApp  string `json:"whatsapp"`
	Instagram string `json:"instagram"`
	Phone     string `json:"phone"`
}

// ChallengeText holds the strings shown by the riddle gate
type ChallengeText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Placeholder string `json:"placeholder"`
	Error       string `json:"error"`
	Success     string `json:"success"`
	Submit      string `json:"submit"`
}

// MissingFields returns the dotted paths of every empty field in the tree.
// An empty result means the translation is complete.
func (c *ContentTree) MissingFields() []string {
	var missing []string
	check := func(path, value string) {
		if value == "" {
			missing = append(missing, path)
		}
	}

	check("name", c.Name)
	check("nav.projects", c.Nav.Projects)
	check("nav.about", c.Nav.About)
	check("nav.contacts", c.Nav.Contacts)
	check("nav.contactBtn", c.Nav.ContactBtn)
	check("hero.experience", c.Hero.Experience)
	check("hero.role", c.Hero.Role)
	check("projects.eyebrow", c.Projects.Eyebrow)
	check("projects.title", c.Projects.Title)
	check("projects.subtitle", c.Projects.Subtitle)
	if len(c.Projects.Items) == 0 {
		missing = append(missing, "projects.items")
	}
	for i, item := range c.Projects.Items {
		check(fmt.Sprintf("projects.items[%d].title", i), item.Title)
		check(fmt.Sprintf("projects.items[%d].description", i), item.Description)
	}
	check("about.eyebrow", c.About.Eyebrow)
	check("about.title", c.About.Title)
	check("about.description", c.About.Description)
	check("contacts.eyebrow", c.Contacts.Eyebrow)
	check("contacts.title", c.Contacts.Title)
	check("contacts.telegram", c.Contacts.Telegram)
	check("contacts.email", c.Contacts.Email)
	check("contacts.linkedin", c.Contacts.LinkedIn)
	check("contacts.whatsapp", c.Contacts.WhatsApp)
	check("contacts.instagram", c.Contacts.Instagram)
	check("contacts.phone", c.Contacts.Phone)
	check("challenge.title", c.Challenge.Title)
	check("challenge.description", c.Challenge.Description)
	check("challenge.placeholder", c.Challenge.Placeholder)
	check("challenge.error", c.Challenge.Error)
	check("challenge.success", c.Challenge.Success)
	check("challenge.submit", c.Challenge.Submit)

	return missing
}

// SiteProfile holds the language-independent parts of the page
type SiteProfile struct {
	Brand         string   `json:"brand"`
	Skills        []string `json:"skills"`
	Companies     []string `json:"companies"`
	Avatar        string   `json:"avatar"`
	AvatarGlitch  string   `json:"avatar_glitch"`
	ProjectImages []string `json:"project_images"`
	Links         Links    `json:"links"`
}

// Links holds the fixed outbound contact targets
type Links struct {
	Email     string `json:"email"`
	Telegram  string `json:"telegram"`
	LinkedIn  string `json:"linkedin"`
	WhatsApp  string `json:"whatsapp"`
	Instagram string `json:"instagram"`
	Phone     string `json:"phone"`
}

// ProjectImage returns the image paired with project index i, or "" when the
// image sequence is shorter than the project list
func (p *SiteProfile) ProjectImage(i int) string {
	if i < 0 || i >= len(p.ProjectImages) {
		return ""
	}
	return p.ProjectImages[i]
}
