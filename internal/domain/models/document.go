package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the internal representation of issue and expiry dates.
const DateLayout = "2006-01-02"

// DefaultValidityDays is how far past the issue date a new document expires.
const DefaultValidityDays = 30

// DocumentType identifies the kind of business document being edited
type DocumentType string

const (
	DocumentTypeProposal DocumentType = "proposal"
	DocumentTypeBudget   DocumentType = "budget"
	DocumentTypeContract DocumentType = "contract"
)

// Valid reports whether t is a known document type
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeProposal, DocumentTypeBudget, DocumentTypeContract:
		return true
	}
	return false
}

// Status is the commercial state of a persisted document
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// DeliverableKind classifies a unit of work in the project scope
type DeliverableKind string

const (
	DeliverableFeature       DeliverableKind = "feature"
	DeliverableFunctional    DeliverableKind = "functional"
	DeliverableNonFunctional DeliverableKind = "non-functional"
	DeliverableTask          DeliverableKind = "task"
)

func (k DeliverableKind) Valid() bool {
	switch k {
	case DeliverableFeature, DeliverableFunctional, DeliverableNonFunctional, DeliverableTask:
		return true
	}
	return false
}

// SubitemKind classifies a requirement or note attached to a deliverable
type SubitemKind string

const (
	SubitemFunctional    SubitemKind = "functional"
	SubitemNonFunctional SubitemKind = "non-functional"
	SubitemNote          SubitemKind = "note"
)

func (k SubitemKind) Valid() bool {
	switch k {
	case SubitemFunctional, SubitemNonFunctional, SubitemNote:
		return true
	}
	return false
}

type Client struct {
	Name             string `json:"name"`
	ResponsibleParty string `json:"responsibleParty"`
	Email            string `json:"email"`
	TaxID            string `json:"taxId"`
	Address          string `json:"address"`
}

type Subitem struct {
	Text string      `json:"text"` // may carry **bold**, _italic_ and `code` markers
	Kind SubitemKind `json:"kind"`
}

type Deliverable struct {
	Title    string          `json:"title"`
	Kind     DeliverableKind `json:"kind"`
	Subitems []Subitem       `json:"subitems"`
}

type Project struct {
	Description  string        `json:"description"`
	Deliverables []Deliverable `json:"deliverables"`
}

type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Total returns quantity × unit price
func (i LineItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Terms holds the commercial conditions. Blank fields are shown with canned text
// in the preview but are stored blank.
type Terms struct {
	ExecutionDeadline string `json:"executionDeadline"`
	PaymentTerms      string `json:"paymentTerms"`
	AdditionalTerms   string `json:"additionalTerms"`
	Warranty          string `json:"warranty"`
}

// Document is the editing-session aggregate: one proposal, budget or contract.
type Document struct {
	ID         string       `json:"id"`
	Type       DocumentType `json:"documentType"`
	IssueDate  string       `json:"issueDate"`
	ExpiryDate string       `json:"expiryDate"`
	Status     Status       `json:"status"`
	Client     Client       `json:"client"`
	Project    Project      `json:"project"`
	Items      []LineItem   `json:"items"`
	Terms      Terms        `json:"terms"`
	CreatedAt  time.Time    `json:"createdAt,omitempty"`
	UpdatedAt  time.Time    `json:"updatedAt,omitempty"`
}

// NewDocument returns a blank document with the editor defaults: one empty
// deliverable, one line item of quantity 1 and a 30 day validity.
func NewDocument(id string, now time.Time) *Document {
	return &Document{
		ID:         id,
		Type:       DocumentTypeProposal,
		IssueDate:  now.Format(DateLayout),
		ExpiryDate: now.AddDate(0, 0, DefaultValidityDays).Format(DateLayout),
		Status:     StatusDraft,
		Project: Project{
			Deliverables: []Deliverable{NewDeliverable()},
		},
		Items: []LineItem{NewLineItem()},
	}
}

func NewLineItem() LineItem {
	return LineItem{Quantity: 1, UnitPrice: decimal.Zero}
}

func NewDeliverable() Deliverable {
	return Deliverable{Kind: DeliverableFeature, Subitems: []Subitem{}}
}

func NewSubitem() Subitem {
	return Subitem{Kind: SubitemFunctional}
}

// GrandTotal sums every line item, including the ones hidden from the preview
func (d *Document) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.Total())
	}
	return total
}

// Clone returns a deep copy that shares no slices with d
func (d *Document) Clone() *Document {
	c := *d
	c.Items = append([]LineItem(nil), d.Items...)
	c.Project.Deliverables = make([]Deliverable, len(d.Project.Deliverables))
	for i, del := range d.Project.Deliverables {
		del.Subitems = append([]Subitem{}, del.Subitems...)
		c.Project.Deliverables[i] = del
	}
	return &c
}
