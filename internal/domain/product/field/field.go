package field

import "fmt"

// Kind is how a product field is stored and compared.
type Kind string

// Field kind constants.
const (
	// Text is a single string value matched by case-insensitive containment.
	Text     Kind = "text"
	TextList Kind = "text_list"
	Numeric  Kind = "numeric"
	Flag     Kind = "flag"
)

// Field is a searchable product attribute. The set is closed: only the values
// declared below ever reach a store, so client input never names storage fields.
type Field struct {
	name string
	kind Kind
}

// Searchable product fields. Name() is the attribute name inside the stored document.
var (
	ID          = Field{name: "_id", kind: Text}
	Name        = Field{name: "name", kind: Text}
	Description = Field{name: "description", kind: Text}
	Category    = Field{name: "category", kind: Text}
	Tags        = Field{name: "tags", kind: TextList}
	Features    = Field{name: "features", kind: TextList}
	Size        = Field{name: "size", kind: Text}
	Finish      = Field{name: "finish", kind: Text}
	Price       = Field{name: "price", kind: Numeric}
	Rating      = Field{name: "rating", kind: Numeric}
	Reviews     = Field{name: "reviews", kind: Numeric}
	InStock     = Field{name: "inStock", kind: Flag}
	// CreatedAt is the creation time as unix milliseconds, written by the product repository
	// next to the JSON document so every store can range and sort on it numerically.
	CreatedAt = Field{name: "__created_ts", kind: Numeric}
)

var all = []Field{ID, Name, Description, Category, Tags, Features, Size, Finish, Price, Rating, Reviews, InStock, CreatedAt}

// All returns every searchable field.
func All() []Field {
	out := make([]Field, len(all))
	copy(out, all)
	return out
}

// ByName resolves a stored attribute name to its Field.
func ByName(name string) (Field, error) {
	for _, f := range all {
		if f.name == name {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("unknown product field %q", name)
}

// Name returns the attribute name inside the stored document.
func (f Field) Name() string { return f.name }

// Kind returns how the field is stored and compared.
func (f Field) Kind() Kind { return f.kind }

// IsZero reports whether f is the zero Field.
func (f Field) IsZero() bool { return f.name == "" }

// String implements fmt.Stringer.
func (f Field) String() string { return f.name }
