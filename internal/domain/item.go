package domain

// Item attribute names as stored in the items table.
const (
	AttrPartitionKey     = "partitionKey"
	AttrSortKey          = "sortKey"
	AttrName             = "name"
	AttrDescription      = "description"
	AttrNumericAttribute = "numericAttribute"
	AttrBooleanAttribute = "booleanAttribute"
	AttrTranslations     = "translations"
	AttrCreatedAt        = "createdAt"
	AttrUpdatedAt        = "updatedAt"
)

// Item is keyed by (PartitionKey, SortKey). Translations is a per-language
// cache of Description, absent until the first translation.
type Item struct {
	PartitionKey     string            `dynamodbav:"partitionKey" json:"partitionKey"`
	SortKey          string            `dynamodbav:"sortKey" json:"sortKey"`
	Name             string            `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Description      string            `dynamodbav:"description,omitempty" json:"description,omitempty"`
	NumericAttribute *float64          `dynamodbav:"numericAttribute,omitempty" json:"numericAttribute,omitempty"`
	BooleanAttribute *bool             `dynamodbav:"booleanAttribute,omitempty" json:"booleanAttribute,omitempty"`
	Translations     map[string]string `dynamodbav:"translations,omitempty" json:"translations,omitempty"`
	CreatedAt        string            `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt        string            `dynamodbav:"updatedAt" json:"updatedAt"`
}

// Implement TimestampedEntity interface for Item
func (i *Item) SetCreatedAt(timestamp string) { i.CreatedAt = timestamp }
func (i *Item) SetUpdatedAt(timestamp string) { i.UpdatedAt = timestamp }

// HasField reports whether the named optional attribute carries a value.
// Unknown names report false.
func (i Item) HasField(name string) bool {
	switch name {
	case AttrPartitionKey:
		return i.PartitionKey != ""
	case AttrSortKey:
		return i.SortKey != ""
	case AttrName:
		return i.Name != ""
	case AttrDescription:
		return i.Description != ""
	case AttrNumericAttribute:
		return i.NumericAttribute != nil
	case AttrBooleanAttribute:
		return i.BooleanAttribute != nil
	}
	return false
}

// Translation returns the cached translation for lang.
func (i Item) Translation(lang string) (string, bool) {
	text, ok := i.Translations[lang]
	return text, ok
}

// PartialItem carries the updatable fields of an Item. Nil means "leave unchanged".
type PartialItem struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	NumericAttribute *float64 `json:"numericAttribute"`
	BooleanAttribute *bool    `json:"booleanAttribute"`
}

// IsEmpty reports whether no updatable field is set.
func (p PartialItem) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.NumericAttribute == nil && p.BooleanAttribute == nil
}
