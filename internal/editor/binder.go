package editor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/models"
)

// User-facing messages for rejected structural edits
const (
	msgKeepOneItem        = "Mantenha pelo menos um item"
	msgKeepOneDeliverable = "Mantenha pelo menos um entregável"
)

type fieldSetter func(d *models.Document, value string) error

// fields maps each scalar form field to its place in the document
var fields = map[string]fieldSetter{
	"documentType": func(d *models.Document, v string) error {
		t, ok := models.ParseDocumentType(v)
		if !ok {
			return invalid(fmt.Sprintf("unknown document type %q", v))
		}
		d.Type = t
		return nil
	},
	"issueDate":               func(d *models.Document, v string) error { d.IssueDate = strings.TrimSpace(v); return nil },
	"expiryDate":              func(d *models.Document, v string) error { d.ExpiryDate = strings.TrimSpace(v); return nil },
	"client.name":             func(d *models.Document, v string) error { d.Client.Name = v; return nil },
	"client.responsibleParty": func(d *models.Document, v string) error { d.Client.ResponsibleParty = v; return nil },
	"client.email":            func(d *models.Document, v string) error { d.Client.Email = v; return nil },
	"client.taxId":            func(d *models.Document, v string) error { d.Client.TaxID = v; return nil },
	"client.address":          func(d *models.Document, v string) error { d.Client.Address = v; return nil },
	"project.description":     func(d *models.Document, v string) error { d.Project.Description = v; return nil },
	"terms.executionDeadline": func(d *models.Document, v string) error { d.Terms.ExecutionDeadline = v; return nil },
	"terms.paymentTerms":      func(d *models.Document, v string) error { d.Terms.PaymentTerms = v; return nil },
	"terms.additionalTerms":   func(d *models.Document, v string) error { d.Terms.AdditionalTerms = v; return nil },
	"terms.warranty":          func(d *models.Document, v string) error { d.Terms.Warranty = v; return nil },
}

// FieldNames lists the scalar fields SetField accepts, sorted
func FieldNames() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetField updates one scalar field. Field edits do not change the structure version.
func (s *Session) SetField(name, value string) (*Snapshot, error) {
	set, ok := fields[name]
	if !ok {
		return nil, invalid(fmt.Sprintf("unknown field %q", name))
	}
	return s.mutate(false, func(d *models.Document) error {
		return set(d, value)
	})
}

// ParseQuantity reads the leading integer of a quantity as typed, so "2.5"
// is 2 and "3 un" is 3. No leading digits, a negative sign or overflow
// becomes 0.
func ParseQuantity(value string) int {
	v := strings.TrimLeft(value, " \t\n\r")
	v = strings.TrimPrefix(v, "+")
	end := strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' })
	if end == -1 {
		end = len(v)
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}

// ParseUnitPrice reads a price as typed, accepting "1500.50", "1500,50" and
// "1.500,50". Anything unparseable or negative becomes 0.
func ParseUnitPrice(value string) decimal.Decimal {
	v := strings.TrimSpace(value)
	v = strings.TrimPrefix(v, "R$")
	v = strings.TrimSpace(v)
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.Replace(v, ",", ".", 1)
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func (s *Session) AddLineItem() (*Snapshot, error) {
	return s.mutate(true, func(d *models.Document) error {
		d.Items = append(d.Items, models.NewLineItem())
		return nil
	})
}

// RemoveLineItem refuses to remove the last remaining item
func (s *Session) RemoveLineItem(index int) (*Snapshot, error) {
	return s.mutate(true, func(d *models.Document) error {
		if err := checkIndex("item", index, len(d.Items)); err != nil {
			return err
		}
		if len(d.Items) <= 1 {
			return invalid(msgKeepOneItem)
		}
		d.Items = append(d.Items[:index], d.Items[index+1:]...)
		return nil
	})
}

// SetLineItemField updates description, quantity or unitPrice of one row
func (s *Session) SetLineItemField(index int, field, value string) (*Snapshot, error) {
	return s.mutate(false, func(d *models.Document) error {
		if err := checkIndex("item", index, len(d.Items)); err != nil {
			return err
		}
		item := &d.Items[index]
		switch field {
		case "description":
			item.Description = value
		case "quantity":
			item.Quantity = ParseQuantity(value)
		case "unitPrice":
			item.UnitPrice = ParseUnitPrice(value)
		default:
			return invalid(fmt.Sprintf("unknown item field %q", field))
		}
		return nil
	})
}

func (s *Session) AddDeliverable() (*Snapshot, error) {
	return s.mutate(true, func(d *models.Document) error {
		d.Project.Deliverables = append(d.Project.Deliverables, models.NewDeliverable())
		return nil
	})
}

// RemoveDeliverable refuses to remove the last remaining deliverable
func (s *Session) RemoveDeliverable(index int) (*Snapshot, error) {
	return s.mutate(true, func(d *models.Document) error {
		dels := d.Project.Deliverables
		if err := checkIndex("deliverable", index, len(dels)); err != nil {
			return err
		}
		if len(dels) <= 1 {
			return invalid(msgKeepOneDeliverable)
		}
		d.Project.Deliverables = append(dels[:index], dels[index+1:]...)
		return nil
	})
}

// SetDeliverableField updates the title or kind of one deliverable
func (s *Session) SetDeliverableField(index int, field, value string) (*Snapshot, error) {
	return s.mutate(false, func(d *models.Document) error {
		if err := checkIndex("deliverable", index, len(d.Project.Deliverables)); err != nil {
			return err
		}
		del := &d.Project.Deliverables[index]
		switch field {
		case "title":
			del.Title = value
		case "kind":
			kind := models.DeliverableKind(value)
			if !kind.Valid() {
				return invalid(fmt.Sprintf("unknown deliverable kind %q", value))
			}
			del.Kind = kind
		default:
			return invalid(fmt.Sprintf("unknown deliverable field %q", field))
		}
		return nil
	})
}

func (s *Session) AddSubitem(deliverable int) (*Snapshot, error) {
	return s.mutate(true, func(d *models.Document) error {
		if err := checkIndex("deliverable", deliverable, len(d.Project.Deliverables)); err != nil {
			return err
		}
		del := &d.Project.Deliverables[deliverable]
		del.Subitems = append(del.Subitems, models.NewSubitem())
		return nil
	})
}

// RemoveSubitem removes a requirement or note; a deliverable may end up with none
func (s *Session) RemoveSubitem(deliverable, subitem int) (*Snapshot, error) {
	return s.mutate(true, func(d *models.Document) error {
		if _, err := subitemAt(d, deliverable, subitem); err != nil {
			return err
		}
		del := &d.Project.Deliverables[deliverable]
		del.Subitems = append(del.Subitems[:subitem], del.Subitems[subitem+1:]...)
		return nil
	})
}

// SetSubitemField updates the text or kind of one subitem
func (s *Session) SetSubitemField(deliverable, subitem int, field, value string) (*Snapshot, error) {
	return s.mutate(false, func(d *models.Document) error {
		sub, err := subitemAt(d, deliverable, subitem)
		if err != nil {
			return err
		}
		switch field {
		case "text":
			sub.Text = value
		case "kind":
			kind := models.SubitemKind(value)
			if !kind.Valid() {
				return invalid(fmt.Sprintf("unknown subitem kind %q", value))
			}
			sub.Kind = kind
		default:
			return invalid(fmt.Sprintf("unknown subitem field %q", field))
		}
		return nil
	})
}

// ApplyFormat wraps the selected runes of a subitem's text in emphasis markers.
// It returns the selection covering the wrapped text, markers included.
func (s *Session) ApplyFormat(deliverable, subitem int, sel Selection, format Format) (*Snapshot, Selection, error) {
	var after Selection
	snap, err := s.mutate(false, func(d *models.Document) error {
		sub, err := subitemAt(d, deliverable, subitem)
		if err != nil {
			return err
		}
		text, next, err := Wrap(sub.Text, sel, format)
		if err != nil {
			return err
		}
		sub.Text = text
		after = next
		return nil
	})
	if err != nil {
		return nil, Selection{}, err
	}
	return snap, after, nil
}

func subitemAt(d *models.Document, deliverable, subitem int) (*models.Subitem, error) {
	if err := checkIndex("deliverable", deliverable, len(d.Project.Deliverables)); err != nil {
		return nil, err
	}
	del := &d.Project.Deliverables[deliverable]
	if err := checkIndex("subitem", subitem, len(del.Subitems)); err != nil {
		return nil, err
	}
	return &del.Subitems[subitem], nil
}

func checkIndex(what string, index, length int) error {
	if index < 0 || index >= length {
		return invalid(fmt.Sprintf("%s %d out of range", what, index))
	}
	return nil
}
