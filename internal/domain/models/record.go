package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is the persisted shape of a document, shared by the remote table and the
// local key-value collection. Field names and enumeration values follow the
// stored format, which predates the English domain names.
type Record struct {
	ID         string        `json:"id"`
	Type       string        `json:"tipo"`
	Client     ClientRecord  `json:"dados_cliente"`
	Content    ContentRecord `json:"conteudo"`
	Total      float64       `json:"valor_total"`
	Status     string        `json:"status"`
	IssueDate  string        `json:"data_emissao"`
	ExpiryDate string        `json:"data_validade,omitempty"`
	// LegacyExpiryDate is the key older local collections used for the expiry date
	LegacyExpiryDate string    `json:"validade,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ClientRecord struct {
	Name        string `json:"nome"`
	Responsible string `json:"responsavel"`
	Email       string `json:"email"`
	TaxID       string `json:"documento"`
	Address     string `json:"endereco"`
}

type ContentRecord struct {
	Description     string              `json:"descricao"`
	Deliverables    []DeliverableRecord `json:"entregaveis"`
	Items           []LineItemRecord    `json:"itens"`
	Deadline        string              `json:"prazo"`
	PaymentTerms    string              `json:"formaPagamento"`
	AdditionalTerms string              `json:"condicoesAdicionais"`
	Warranty        string              `json:"garantias"`
}

type DeliverableRecord struct {
	Title    string          `json:"titulo"`
	Kind     string          `json:"tipo"`
	Subitems []SubitemRecord `json:"subitens"`
}

type SubitemRecord struct {
	Text string `json:"texto"`
	Kind string `json:"tipo"`
}

type LineItemRecord struct {
	Description string  `json:"descricao"`
	Quantity    int     `json:"quantidade"`
	UnitPrice   float64 `json:"valorUnitario"`
}

// Expiry returns the expiry date from whichever key the record carries
func (r *Record) Expiry() string {
	if r.ExpiryDate != "" {
		return r.ExpiryDate
	}
	return r.LegacyExpiryDate
}

var (
	typeToStored = map[DocumentType]string{
		DocumentTypeProposal: "proposta",
		DocumentTypeBudget:   "orcamento",
		DocumentTypeContract: "contrato",
	}
	statusToStored = map[Status]string{
		StatusDraft:     "rascunho",
		StatusPending:   "pendente",
		StatusApproved:  "aprovado",
		StatusRejected:  "rejeitado",
		StatusCancelled: "cancelado",
	}
)

// StoredType returns the persisted value for t
func StoredType(t DocumentType) string {
	if v, ok := typeToStored[t]; ok {
		return v
	}
	return typeToStored[DocumentTypeProposal]
}

// StoredStatus returns the persisted value for s
func StoredStatus(s Status) string {
	if v, ok := statusToStored[s]; ok {
		return v
	}
	return statusToStored[StatusDraft]
}

// ParseDocumentType accepts both the stored and the domain spelling.
// Unknown or empty values yield ok=false.
func ParseDocumentType(v string) (DocumentType, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if t := DocumentType(v); t.Valid() {
		return t, true
	}
	for t, stored := range typeToStored {
		if stored == v {
			return t, true
		}
	}
	return "", false
}

// ParseStatus accepts both the stored and the domain spelling
func ParseStatus(v string) (Status, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if s := Status(v); s.Valid() {
		return s, true
	}
	for s, stored := range statusToStored {
		if stored == v {
			return s, true
		}
	}
	return "", false
}

// ToRecord converts the editing state into the persisted shape. Deliverables with
// a blank title and subitems with blank text are dropped; line items are kept as
// they are and the total is computed over all of them.
func ToRecord(d *Document) *Record {
	rec := &Record{
		ID:   d.ID,
		Type: StoredType(d.Type),
		Client: ClientRecord{
			Name:        d.Client.Name,
			Responsible: d.Client.ResponsibleParty,
			Email:       d.Client.Email,
			TaxID:       d.Client.TaxID,
			Address:     d.Client.Address,
		},
		Content: ContentRecord{
			Description:     d.Project.Description,
			Deliverables:    []DeliverableRecord{},
			Items:           make([]LineItemRecord, 0, len(d.Items)),
			Deadline:        d.Terms.ExecutionDeadline,
			PaymentTerms:    d.Terms.PaymentTerms,
			AdditionalTerms: d.Terms.AdditionalTerms,
			Warranty:        d.Terms.Warranty,
		},
		Total:      d.GrandTotal().InexactFloat64(),
		Status:     StoredStatus(d.Status),
		IssueDate:  d.IssueDate,
		ExpiryDate: d.ExpiryDate,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}

	for _, del := range d.Project.Deliverables {
		if strings.TrimSpace(del.Title) == "" {
			continue
		}
		dr := DeliverableRecord{Title: del.Title, Kind: string(del.Kind), Subitems: []SubitemRecord{}}
		for _, sub := range del.Subitems {
			if strings.TrimSpace(sub.Text) == "" {
				continue
			}
			dr.Subitems = append(dr.Subitems, SubitemRecord{Text: sub.Text, Kind: string(sub.Kind)})
		}
		rec.Content.Deliverables = append(rec.Content.Deliverables, dr)
	}

	for _, item := range d.Items {
		rec.Content.Items = append(rec.Content.Items, LineItemRecord{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.InexactFloat64(),
		})
	}

	return rec
}

// FromRecord rebuilds an editing state from a persisted record. Every field that
// may be absent gets a default, and the deliverable and line item collections
// always come back with at least one entry.
func FromRecord(r *Record) *Document {
	docType, ok := ParseDocumentType(r.Type)
	if !ok {
		docType = DocumentTypeProposal
	}
	status, ok := ParseStatus(r.Status)
	if !ok {
		status = StatusDraft
	}

	d := &Document{
		ID:         r.ID,
		Type:       docType,
		IssueDate:  r.IssueDate,
		ExpiryDate: r.Expiry(),
		Status:     status,
		Client: Client{
			Name:             r.Client.Name,
			ResponsibleParty: r.Client.Responsible,
			Email:            r.Client.Email,
			TaxID:            r.Client.TaxID,
			Address:          r.Client.Address,
		},
		Project: Project{Description: r.Content.Description},
		Terms: Terms{
			ExecutionDeadline: r.Content.Deadline,
			PaymentTerms:      r.Content.PaymentTerms,
			AdditionalTerms:   r.Content.AdditionalTerms,
			Warranty:          r.Content.Warranty,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	for _, dr := range r.Content.Deliverables {
		del := Deliverable{Title: dr.Title, Kind: DeliverableKind(dr.Kind), Subitems: []Subitem{}}
		if !del.Kind.Valid() {
			del.Kind = DeliverableFeature
		}
		for _, sr := range dr.Subitems {
			sub := Subitem{Text: sr.Text, Kind: SubitemKind(sr.Kind)}
			if !sub.Kind.Valid() {
				sub.Kind = SubitemFunctional
			}
			del.Subitems = append(del.Subitems, sub)
		}
		d.Project.Deliverables = append(d.Project.Deliverables, del)
	}
	if len(d.Project.Deliverables) == 0 {
		d.Project.Deliverables = []Deliverable{NewDeliverable()}
	}

	for _, ir := range r.Content.Items {
		item := LineItem{
			Description: ir.Description,
			Quantity:    max(ir.Quantity, 0),
			UnitPrice:   decimal.NewFromFloat(ir.UnitPrice),
		}
		if item.UnitPrice.IsNegative() {
			item.UnitPrice = decimal.Zero
		}
		d.Items = append(d.Items, item)
	}
	if len(d.Items) == 0 {
		d.Items = []LineItem{NewLineItem()}
	}

	return d
}
