package preview

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"quotebuilder/internal/domain/models"
)

//go:embed catalog/*.yaml
var catalogFiles embed.FS

// DefaultLocale is the only catalogue shipped today
const DefaultLocale = "pt-BR"

// Texts holds the canned paragraphs shown when a field is blank, plus the
// clauses that are always printed verbatim.
type Texts struct {
	Presentation         string `yaml:"presentation"`
	Scope                string `yaml:"scope"`
	Deadline             string `yaml:"deadline"`
	Payment              string `yaml:"payment"`
	IntellectualProperty string `yaml:"intellectual_property"`
	Support              string `yaml:"support"`
	Confidentiality      string `yaml:"confidentiality"`
	Termination          string `yaml:"termination"`
}

type TypeLabels struct {
	Title string `yaml:"title"`
	Short string `yaml:"short"`
}

type Fallbacks struct {
	DeliverableKind string `yaml:"deliverable_kind"`
	SubitemTag      string `yaml:"subitem_tag"`
	EmptyValue      string `yaml:"empty_value"`
	ClientSignature string `yaml:"client_signature"`
	ClientName      string `yaml:"client_name"`
	NoDeliverables  string `yaml:"no_deliverables"`
	NoItems         string `yaml:"no_items"`
}

// Catalog is the embedded text and label table for one locale
type Catalog struct {
	Texts            Texts                              `yaml:"texts"`
	DocumentTypes    map[models.DocumentType]TypeLabels `yaml:"document_types"`
	Statuses         map[models.Status]string           `yaml:"statuses"`
	DeliverableKinds map[models.DeliverableKind]string  `yaml:"deliverable_kinds"`
	SubitemTags      map[models.SubitemKind]string      `yaml:"subitem_tags"`
	Fallbacks        Fallbacks                          `yaml:"fallbacks"`
}

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// LoadCatalog reads the embedded catalogue for locale
func LoadCatalog(locale string) (*Catalog, error) {
	filename := fmt.Sprintf("catalog/%s.yaml", locale)
	data, err := catalogFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	return &c, nil
}

// DefaultCatalog returns the shared pt-BR catalogue, parsed once
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = LoadCatalog(DefaultLocale)
	})
	return defaultCatalog, defaultCatalogErr
}

// TypeTitle is the heading printed on the document, e.g. "Proposta Comercial"
func (c *Catalog) TypeTitle(t models.DocumentType) string {
	if l, ok := c.DocumentTypes[t]; ok {
		return l.Title
	}
	return c.DocumentTypes[models.DocumentTypeProposal].Title
}

// TypeShort is the label used in draft listings, e.g. "Proposta"
func (c *Catalog) TypeShort(t models.DocumentType) string {
	if l, ok := c.DocumentTypes[t]; ok {
		return l.Short
	}
	return c.DocumentTypes[models.DocumentTypeProposal].Short
}

func (c *Catalog) StatusLabel(s models.Status) string {
	if l, ok := c.Statuses[s]; ok {
		return l
	}
	return string(s)
}

func (c *Catalog) DeliverableLabel(k models.DeliverableKind) string {
	if l, ok := c.DeliverableKinds[k]; ok {
		return l
	}
	return c.Fallbacks.DeliverableKind
}

func (c *Catalog) SubitemTag(k models.SubitemKind) string {
	if l, ok := c.SubitemTags[k]; ok {
		return l
	}
	return c.Fallbacks.SubitemTag
}
