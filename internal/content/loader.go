package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/akopian/portfolio/internal/gate"
	"github.com/akopian/portfolio/internal/models"
)

// ErrIncompleteCatalog is returned when a catalog fails validation
var ErrIncompleteCatalog = errors.New("content catalog is incomplete")

//go:embed catalog/*.yaml
var embeddedFS embed.FS

// Catalog is everything the site renders: one content tree per language,
// the language-independent profile and the riddle collection
type Catalog struct {
	Trees   map[models.LanguageCode]*models.ContentTree
	Profile *models.SiteProfile
	Riddles []*models.Riddle
}

// LoadEmbedded loads the catalog compiled into the binary
func LoadEmbedded() (*Catalog, error) {
	sub, err := fs.Sub(embeddedFS, "catalog")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded catalog: %w", err)
	}
	return LoadFromFS(sub)
}

// LoadFromDir loads a catalog from a directory on disk
func LoadFromDir(dir string) (*Catalog, error) {
	slog.Info("loading content catalog from directory", "dir", dir)
	return LoadFromFS(os.DirFS(dir))
}

// Load picks the directory when set and the embedded catalog otherwise
func Load(dir string) (*Catalog, error) {
	if dir == "" {
		return LoadEmbedded()
	}
	return LoadFromDir(dir)
}

// LoadFromFS loads and validates every YAML file at the root of fsys
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}

	c := &Catalog{Trees: make(map[models.LanguageCode]*models.ContentTree)}

	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		switch strings.TrimSuffix(file, path.Ext(file)) {
		case "site":
			if err := c.loadProfile(data); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", file, err)
			}
		case "riddles":
			if err := c.loadRiddles(data); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", file, err)
			}
		default:
			if err := c.loadLanguage(file, data); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", file, err)
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	slog.Info("content catalog loaded",
		"languages", len(c.Trees),
		"projects", len(c.Trees[models.DefaultLanguage].Projects.Items),
		"riddles", len(c.Riddles),
	)
	return c, nil
}

func (c *Catalog) loadLanguage(file string, data []byte) error {
	var lf languageFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	lang := models.LanguageCode(lf.Language)
	if !lang.IsValid() {
		return fmt.Errorf("unsupported language %q", lf.Language)
	}
	if _, dup := c.Trees[lang]; dup {
		return fmt.Errorf("language %s defined twice", lang)
	}

	c.Trees[lang] = lf.toTree()
	slog.Debug("content tree loaded", "file", file, "language", lang)
	return nil
}

func (c *Catalog) loadProfile(data []byte) error {
	var sf siteFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	c.Profile = &models.SiteProfile{
		Brand:         sf.Brand,
		Skills:        sf.Skills,
		Companies:     sf.Companies,
		Avatar:        sf.Avatar,
		AvatarGlitch:  sf.AvatarGlitch,
		ProjectImages: sf.ProjectImages,
		Links:         models.Links(sf.Links),
	}
	return nil
}

func (c *Catalog) loadRiddles(data []byte) error {
	var rf riddlesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	for i, r := range rf.Riddles {
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("riddle-%d", i+1)
		}
		c.Riddles = append(c.Riddles, &models.Riddle{
			ID:      id,
			Code:    r.Code,
			Answers: gate.NormalizeAnswers(r.Answers),
		})
	}
	return nil
}

// Validate checks the structural invariants the page relies on: both
// languages present and fully translated, the same number of projects in
// each, a profile, and a non-empty riddle collection whose riddles all have
// at least one answer
func (c *Catalog) Validate() error {
	var problems []string

	for _, lang := range models.Languages {
		tree, ok := c.Trees[lang]
		if !ok {
			problems = append(problems, fmt.Sprintf("language %s is missing", lang))
			continue
		}
		for _, field := range tree.MissingFields() {
			problems = append(problems, fmt.Sprintf("%s: %s is empty", lang, field))
		}
	}

	if en, ru := c.Trees[models.LanguageEN], c.Trees[models.LanguageRU]; en != nil && ru != nil {
		if len(en.Projects.Items) != len(ru.Projects.Items) {
			problems = append(problems, fmt.Sprintf("project count differs: en=%d ru=%d",
				len(en.Projects.Items), len(ru.Projects.Items)))
		}
	}

	if c.Profile == nil {
		problems = append(problems, "site.yaml is missing")
	}

	if len(c.Riddles) == 0 {
		problems = append(problems, "riddle collection is empty")
	}
	seen := make(map[string]bool)
	for _, r := range c.Riddles {
		if seen[r.ID] {
			problems = append(problems, fmt.Sprintf("riddle %s defined twice", r.ID))
		}
		seen[r.ID] = true
		if strings.TrimSpace(r.Code) == "" {
			problems = append(problems, fmt.Sprintf("riddle %s has no code", r.ID))
		}
		if len(r.Answers) == 0 {
			problems = append(problems, fmt.Sprintf("riddle %s has no answers", r.ID))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrIncompleteCatalog, strings.Join(problems, "; "))
	}
	return nil
}

// AssetProblems cross-checks the project image sequence against the project
// lists. The page never enforces this pairing, so it is reported rather than
// failing the load.
func (c *Catalog) AssetProblems() []string {
	if c.Profile == nil {
		return []string{"site.yaml is missing"}
	}

	var problems []string
	for _, lang := range models.Languages {
		tree, ok := c.Trees[lang]
		if !ok {
			continue
		}
		if n, m := len(tree.Projects.Items), len(c.Profile.ProjectImages); n != m {
			problems = append(problems, fmt.Sprintf("%s: %d projects but %d project images", lang, n, m))
		}
	}
	for i, img := range c.Profile.ProjectImages {
		if img == "" {
			problems = append(problems, fmt.Sprintf("project image %d is empty", i))
		}
	}
	return problems
}

// --- YAML file structs ---

// languageFile represents the YAML structure of a per-language file
type languageFile struct {
	Language string `yaml:"language"`
	Name     string `yaml:"name"`
	Nav      struct {
		Projects   string `yaml:"projects"`
		About      string `yaml:"about"`
		Contacts   string `yaml:"contacts"`
		ContactBtn string `yaml:"contact_btn"`
	} `yaml:"nav"`
	Hero struct {
		Experience string `yaml:"experience"`
		Role       string `yaml:"role"`
	} `yaml:"hero"`
	Projects struct {
		Eyebrow  string        `yaml:"eyebrow"`
		Title    string        `yaml:"title"`
		Subtitle string        `yaml:"subtitle"`
		Items    []projectFile `yaml:"items"`
	} `yaml:"projects"`
	About struct {
		Eyebrow     string `yaml:"eyebrow"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"about"`
	Contacts struct {
		Eyebrow   string `yaml:"eyebrow"`
		Title     string `yaml:"title"`
		Telegram  string `yaml:"telegram"`
		Email     string `yaml:"email"`
		LinkedIn  string `yaml:"linkedin"`
		WhatsApp  string `yaml:"whatsapp"`
		Instagram string `yaml:"instagram"`
		Phone     string `yaml:"phone"`
	} `yaml:"contacts"`
	Challenge struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Placeholder string `yaml:"placeholder"`
		Error       string `yaml:"error"`
		Success     string `yaml:"success"`
		Submit      string `yaml:"submit"`
	} `yaml:"challenge"`
}

type projectFile struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Stats       string `yaml:"stats"`
	Link        string `yaml:"link"`
}

func (lf *languageFile) toTree() *models.ContentTree {
	items := make([]models.ProjectEntry, 0, len(lf.Projects.Items))
	for _, p := range lf.Projects.Items {
		entry := models.ProjectEntry{
			Title:       p.Title,
			Description: p.Description,
		}
		if p.Stats != "" {
			stats := p.Stats
			entry.Stats = &stats
		}
		if p.Link != "" {
			link := p.Link
			entry.Link = &link
		}
		items = append(items, entry)
	}

	return &models.ContentTree{
		Name: lf.Name,
		Nav: models.NavContent{
			Projects:   lf.Nav.Projects,
			About:      lf.Nav.About,
			Contacts:   lf.Nav.Contacts,
			ContactBtn: lf.Nav.ContactBtn,
		},
		Hero: models.HeroContent(lf.Hero),
		Projects: models.ProjectsContent{
			Eyebrow:  lf.Projects.Eyebrow,
			Title:    lf.Projects.Title,
			Subtitle: lf.Projects.Subtitle,
			Items:    items,
		},
		About:     models.AboutContent(lf.About),
		Contacts:  models.ContactsContent(lf.Contacts),
		Challenge: models.ChallengeText(lf.Challenge),
	}
}

// siteFile represents the YAML structure of site.yaml
type siteFile struct {
	Brand         string   `yaml:"brand"`
	Avatar        string   `yaml:"avatar"`
	AvatarGlitch  string   `yaml:"avatar_glitch"`
	ProjectImages []string `yaml:"project_images"`
	Skills        []string `yaml:"skills"`
	Companies     []string `yaml:"companies"`
	Links         struct {
		Email     string `yaml:"email"`
		Telegram  string `yaml:"telegram"`
		LinkedIn  string `yaml:"linkedin"`
		WhatsApp  string `yaml:"whatsapp"`
		Instagram string `yaml:"instagram"`
		Phone     string `yaml:"phone"`
	} `yaml:"links"`
}

// riddlesFile represents the YAML structure of riddles.yaml
type riddlesFile struct {
	Riddles []struct {
		ID      string   `yaml:"id"`
		Code    string   `yaml:"code"`
		Answers []string `yaml:"answers"`
	} `yaml:"riddles"`
}
