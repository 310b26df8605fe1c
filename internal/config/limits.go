package config

const (
	// MaxShortFieldLength bounds client fields, titles and line item descriptions.
	MaxShortFieldLength = 255

	// MaxLongFieldLength bounds the project description and each terms field.
	MaxLongFieldLength = 10000

	// MaxSubitemTextLength bounds a single requirement or note.
	MaxSubitemTextLength = 1000

	// MaxLineItems is the largest values table a document may carry.
	MaxLineItems = 200

	// MaxDeliverables bounds the scope section.
	MaxDeliverables = 100

	// MaxSubitemsPerDeliverable bounds the requirements listed under one deliverable.
	MaxSubitemsPerDeliverable = 100
)
