package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TableDescriptor binds a logical table id to its backing file.
type TableDescriptor struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	File        string `yaml:"file"`
	PrimaryKey  string `yaml:"primary_key"`

	// Path is File resolved against the data root.
	Path string `yaml:"-"`
}

// ImageCategory binds a category id to one directory under the data root.
type ImageCategory struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	Dir         string `yaml:"dir"`

	// Path is Dir resolved against the data root.
	Path string `yaml:"-"`
}

// PublicPath is the URL prefix the category is served under.
func (c ImageCategory) PublicPath() string {
	return "/" + filepath.ToSlash(c.Dir)
}

// Catalog is the static set of tables and image categories. Order is the
// declaration order and is preserved in listings.
type Catalog struct {
	Tables     []TableDescriptor `yaml:"tables"`
	Categories []ImageCategory   `yaml:"image_categories"`
}

// Default returns the built-in catalog resolved against dataRoot.
func Default(dataRoot string) *Catalog {
	c := &Catalog{
		Tables: []TableDescriptor{
			{ID: "students", Label: "Students", Description: "Core student roster and program details.", File: "Dim_Students.csv", PrimaryKey: "student_key"},
			{ID: "employers", Label: "Employers", Description: "Employer directory with industry and location details.", File: "dim_employers.csv", PrimaryKey: "employer_key"},
			{ID: "contacts", Label: "Contacts", Description: "Primary employer contacts engaged with SLU.", File: "dim_contact.csv", PrimaryKey: "contact_key"},
			{ID: "events", Label: "Events", Description: "Engagement events and experiential opportunities.", File: "dim_event.csv", PrimaryKey: "event_key"},
			{ID: "dates", Label: "Dates", Description: "Date dimension used for analytics across dashboards.", File: "dim_date.csv", PrimaryKey: "date_key"},
			{ID: "alumniEngagement", Label: "Alumni Engagement Facts", Description: "Fact table tracking alumni interactions and hiring outcomes.", File: "fact_alumni_engagement.csv", PrimaryKey: "fact_id"},
		},
		Categories: []ImageCategory{
			{ID: "alumni", Label: "Alumni & Students", Description: "Images of SLU alumni, students, and engagement spotlights.", Dir: "assets/alumni"},
			{ID: "employers", Label: "Employer Partners", Description: "Logos and photography for DataNexus corporate partners.", Dir: "assets/employers"},
			{ID: "hero", Label: "Hero & Slider", Description: "Hero banner imagery used throughout the experience.", Dir: "assets/hero"},
			{ID: "uploads", Label: "Custom Uploads", Description: "General purpose uploads provided by administrators.", Dir: "assets/uploads"},
		},
	}
	c.resolve(dataRoot)
	return c
}

// Load reads a YAML catalog from path and resolves it against dataRoot.
// An empty path returns the built-in catalog.
func Load(path, dataRoot string) (*Catalog, error) {
	if path == "" {
		return Default(dataRoot), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var c Catalog
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	err = c.validate()
	if err != nil {
		return nil, err
	}

	c.resolve(dataRoot)
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if t.ID == "" || t.File == "" || t.PrimaryKey == "" {
			return fmt.Errorf("catalog table %q needs id, file and primary_key", t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate catalog table %q", t.ID)
		}
		seen[t.ID] = true
	}

	seen = make(map[string]bool)
	for _, cat := range c.Categories {
		if cat.ID == "" || cat.Dir == "" {
			return fmt.Errorf("catalog image category %q needs id and dir", cat.ID)
		}
		if seen[cat.ID] {
			return fmt.Errorf("duplicate image category %q", cat.ID)
		}
		seen[cat.ID] = true
	}
	return nil
}

func (c *Catalog) resolve(dataRoot string) {
	for i := range c.Tables {
		c.Tables[i].Path = filepath.Join(dataRoot, filepath.FromSlash(c.Tables[i].File))
	}
	for i := range c.Categories {
		c.Categories[i].Path = filepath.Join(dataRoot, filepath.FromSlash(c.Categories[i].Dir))
	}
}

// Table looks up a table descriptor by id.
func (c *Catalog) Table(id string) (TableDescriptor, bool) {
	for _, t := range c.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return TableDescriptor{}, false
}

// Category looks up an image category by id.
func (c *Catalog) Category(id string) (ImageCategory, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return ImageCategory{}, false
}

// EnsureImageDirs creates every category directory that is missing.
func (c *Catalog) EnsureImageDirs() error {
	for _, cat := range c.Categories {
		err := os.MkdirAll(cat.Path, 0755)
		if err != nil {
			return fmt.Errorf("failed to create image directory %s: %w", cat.Path, err)
		}
	}
	return nil
}
