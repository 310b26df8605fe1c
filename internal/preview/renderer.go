// Package preview renders an editing state into the formatted business document.
//
// Rendering is a pure function of the state: blank rows are filtered and canned
// texts substituted on a view model built for each call, never on the state.
package preview

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"quotebuilder/internal/domain/models"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// Issuer is the freelancer issuing the documents
type Issuer struct {
	Name      string
	Initials  string
	Signatory string
	Tagline   string
}

// Renderer turns documents into HTML. Safe for concurrent use.
type Renderer struct {
	tmpl     *template.Template
	catalog  *Catalog
	issuer   Issuer
	markdown *markdownExporter
}

// NewRenderer parses the embedded templates. A nil catalog uses DefaultCatalog.
func NewRenderer(issuer Issuer, catalog *Catalog) (*Renderer, error) {
	if catalog == nil {
		var err error
		catalog, err = DefaultCatalog()
		if err != nil {
			return nil, err
		}
	}

	tmpl, err := template.New("preview").ParseFS(templateFiles, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse preview templates: %w", err)
	}

	return &Renderer{
		tmpl:     tmpl,
		catalog:  catalog,
		issuer:   issuer,
		markdown: newMarkdownExporter(),
	}, nil
}

// Catalog exposes the labels the renderer prints
func (r *Renderer) Catalog() *Catalog {
	return r.catalog
}

// Render returns the document body as an HTML fragment
func (r *Renderer) Render(doc *models.Document) (string, error) {
	return r.execute("document", doc)
}

// RenderPrint returns a standalone page with the styles inlined that opens the
// browser's print dialog once loaded.
func (r *Renderer) RenderPrint(doc *models.Document) (string, error) {
	return r.execute("print", doc)
}

func (r *Renderer) execute(name string, doc *models.Document) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, r.View(doc)); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// DocumentView is everything the templates print, already filtered and formatted
type DocumentView struct {
	ID         string
	StoredType string
	TypeTitle  string
	IssueDate  string
	ExpiryDate string
	Issuer     Issuer

	Presentation string
	ClientRows   []LabeledValue
	Address      string
	Description  string

	Deliverables   []DeliverableView
	NoDeliverables string

	Items   []ItemView
	NoItems string
	Total   string

	Terms           []LabeledValue
	Clauses         []LabeledValue
	ClientSignature string
}

type LabeledValue struct {
	Label string
	Value string
}

type DeliverableView struct {
	Kind     models.DeliverableKind
	Badge    string
	Title    string
	Subitems []SubitemView
}

type SubitemView struct {
	Kind  models.SubitemKind
	Tag   string
	Spans []Span
}

type ItemView struct {
	Description string
	Quantity    int
	UnitPrice   string
	Total       string
}

// View builds the view model for doc without touching it
func (r *Renderer) View(doc *models.Document) *DocumentView {
	c := r.catalog
	empty := c.Fallbacks.EmptyValue
	texts := c.Texts

	v := &DocumentView{
		ID:           doc.ID,
		StoredType:   models.StoredType(doc.Type),
		TypeTitle:    c.TypeTitle(doc.Type),
		IssueDate:    FormatDate(doc.IssueDate),
		ExpiryDate:   FormatDate(doc.ExpiryDate),
		Issuer:       r.issuer,
		Presentation: texts.Presentation,
		ClientRows: []LabeledValue{
			{"Nome", orDefault(doc.Client.Name, empty)},
			{"CPF/CNPJ", orDefault(doc.Client.TaxID, empty)},
			{"Responsável", orDefault(doc.Client.ResponsibleParty, empty)},
			{"E-mail", orDefault(doc.Client.Email, empty)},
		},
		Address:        strings.TrimSpace(doc.Client.Address),
		Description:    orDefault(doc.Project.Description, texts.Scope),
		NoDeliverables: c.Fallbacks.NoDeliverables,
		NoItems:        c.Fallbacks.NoItems,
		Total:          FormatCurrency(doc.GrandTotal()),
		Clauses: []LabeledValue{
			{"Propriedade Intelectual", texts.IntellectualProperty},
			{"Confidencialidade", texts.Confidentiality},
			{"Rescisão", texts.Termination},
		},
		ClientSignature: orDefault(doc.Client.Name, c.Fallbacks.ClientSignature),
	}

	for _, del := range doc.Project.Deliverables {
		if isBlank(del.Title) {
			continue
		}
		dv := DeliverableView{Kind: del.Kind, Badge: c.DeliverableLabel(del.Kind), Title: del.Title}
		for _, sub := range del.Subitems {
			if isBlank(sub.Text) {
				continue
			}
			dv.Subitems = append(dv.Subitems, SubitemView{
				Kind:  sub.Kind,
				Tag:   c.SubitemTag(sub.Kind),
				Spans: ParseMarkup(sub.Text),
			})
		}
		v.Deliverables = append(v.Deliverables, dv)
	}

	for _, item := range doc.Items {
		if isBlank(item.Description) {
			continue
		}
		v.Items = append(v.Items, ItemView{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   FormatCurrency(item.UnitPrice),
			Total:       FormatCurrency(item.Total()),
		})
	}

	v.Terms = append(v.Terms,
		LabeledValue{"Prazo de Execução", orDefault(doc.Terms.ExecutionDeadline, texts.Deadline)},
		LabeledValue{"Forma de Pagamento", orDefault(doc.Terms.PaymentTerms, texts.Payment)},
	)
	if !isBlank(doc.Terms.AdditionalTerms) {
		v.Terms = append(v.Terms, LabeledValue{"Condições Adicionais", doc.Terms.AdditionalTerms})
	}
	v.Terms = append(v.Terms, LabeledValue{"Garantia e Suporte", orDefault(doc.Terms.Warranty, texts.Support)})

	return v
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func orDefault(s, fallback string) string {
	if isBlank(s) {
		return fallback
	}
	return s
}
