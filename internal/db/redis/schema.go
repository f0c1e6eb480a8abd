package redis

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/showroom/internal/db"
	"github.com/kailas-cloud/showroom/internal/domain/product"
	"github.com/kailas-cloud/showroom/internal/domain/product/field"
)

// aliases maps product attributes whose names are not usable as index aliases.
var aliases = map[string]string{
	field.ID.Name():        "pid",
	field.CreatedAt.Name(): "created_ts",
}

// alias returns the index attribute name for a product field.
func alias(f field.Field) string {
	if a, ok := aliases[f.Name()]; ok {
		return a
	}
	return f.Name()
}

// jsonPath returns the JSON path indexed for a product field.
func jsonPath(f field.Field) string {
	if f.Kind() == field.TextList {
		return "$." + f.Name() + "[*]"
	}
	return "$." + f.Name()
}

// sortableFields are the attributes that appear in sort orders.
var sortableFields = map[string]bool{
	field.ID.Name():        true,
	field.Name.Name():      true,
	field.Price.Name():     true,
	field.Rating.Name():    true,
	field.Reviews.Name():   true,
	field.CreatedAt.Name(): true,
}

// ProductIndex describes the FT index over product JSON documents.
// Text attributes are case-insensitive TAGs with a suffix trie so that
// substring matching can use infix queries. The tag separator is
// product.TextSeparator, so commas stay part of the value. Sortable text
// attributes keep raw values so names order bytewise.
func ProductIndex(name, prefix string) (*db.IndexDefinition, error) {
	b := db.NewIndex(name).OnJSON().Prefix(prefix)
	for _, f := range field.All() {
		path, as := jsonPath(f), alias(f)
		switch {
		case f == field.ID:
			b.TagWithOpts(path, as, product.TextSeparator, true, false)
		case f.Kind() == field.Text, f.Kind() == field.TextList:
			b.TagWithOpts(path, as, product.TextSeparator, false, true)
		case f.Kind() == field.Numeric:
			b.Numeric(path, as)
		case f.Kind() == field.Flag:
			b.Tag(path, as)
		}
		if sortableFields[f.Name()] {
			b.Sortable()
			if f.Kind() == field.Text {
				b.Unnormalized()
			}
		}
	}
	return b.Build()
}

// EnsureSchema creates the product index. An existing index whose attributes
// differ from ProductIndex is dropped and recreated; documents are kept and reindexed.
func (s *Store) EnsureSchema(ctx context.Context) error {
	def, err := ProductIndex(s.index, s.prefix)
	if err != nil {
		return err
	}

	attrs, err := s.indexAttributes(ctx, s.index)
	switch {
	case errors.Is(err, db.ErrIndexNotFound):
	case err != nil:
		return err
	case schemaMatches(def, attrs):
		return nil
	default:
		if err := s.DropIndex(ctx, s.index); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return err
		}
	}

	err = s.CreateIndex(ctx, def)
	if errors.Is(err, db.ErrIndexExists) {
		return nil
	}
	return err
}

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name. Documents are kept.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// liveAttribute is what EnsureSchema compares on an existing index attribute.
type liveAttribute struct {
	separator    string // "" for non-tag attributes
	unnormalized bool
}

// indexAttributes reads the attributes of an existing index via FT.INFO, keyed by alias.
func (s *Store) indexAttributes(ctx context.Context, name string) (map[string]liveAttribute, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	info, err := s.do(ctx, cmd).AsMap()
	if err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpIndexInfo, Err: err}
	}

	raw, ok := info["attributes"]
	if !ok {
		return map[string]liveAttribute{}, nil
	}
	list, err := raw.ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpIndexInfo, Err: err}
	}

	attrs := make(map[string]liveAttribute, len(list))
	for i := range list {
		if as, attr := parseAttribute(&list[i]); as != "" {
			attrs[as] = attr
		}
	}
	return attrs, nil
}

// parseAttribute reads one FT.INFO attribute entry, a flat list of
// key/value pairs mixed with bare flags.
func parseAttribute(m *rueidis.RedisMessage) (string, liveAttribute) {
	vals, err := m.ToArray()
	if err != nil {
		return "", liveAttribute{}
	}
	var alias, typ string
	var attr liveAttribute
	for i := range vals {
		key, err := vals[i].ToString()
		if err != nil {
			continue
		}
		if strings.EqualFold(key, "UNF") {
			attr.unnormalized = true
			continue
		}
		if i+1 >= len(vals) {
			break
		}
		next, err := vals[i+1].ToString()
		if err != nil {
			continue
		}
		switch strings.ToLower(key) {
		case "attribute":
			alias = next
		case "type":
			typ = next
		case "separator":
			attr.separator = next
		}
	}
	if strings.EqualFold(typ, "TAG") && attr.separator == "" {
		attr.separator = ","
	}
	return alias, attr
}

// schemaMatches reports whether the live attributes cover def with the same
// tag separators and sort normalization.
func schemaMatches(def *db.IndexDefinition, attrs map[string]liveAttribute) bool {
	if len(attrs) != len(def.Fields) {
		return false
	}
	for i := range def.Fields {
		f := &def.Fields[i]
		attr, ok := attrs[f.Alias]
		if !ok || attr.unnormalized != f.Unnormalized {
			return false
		}
		if f.Type != db.IndexFieldTag {
			continue
		}
		want := f.TagSeparator
		if want == "" {
			want = ","
		}
		if attr.separator != want {
			return false
		}
	}
	return true
}

func buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if idx.Name == "" {
		return nil, errors.New("index name is required")
	}
	if len(idx.Fields) == 0 {
		return nil, errors.New("at least one field is required")
	}

	if idx.StorageType == "" {
		return nil, errors.New("storage type is required")
	}

	args := []string{idx.Name, "ON", string(idx.StorageType)}

	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}

	args = append(args, "SCHEMA")

	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}

	return args, nil
}

func buildFieldArgs(f *db.IndexField) ([]string, error) {
	if f.Name == "" {
		return nil, errors.New("field name is required")
	}

	args := []string{f.Name}

	if f.Alias != "" {
		args = append(args, "AS", f.Alias)
	}

	switch f.Type {
	case db.IndexFieldNumeric:
		args = append(args, "NUMERIC")

	case db.IndexFieldTag:
		args = append(args, "TAG")
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}
		if f.TagCaseSensitive {
			args = append(args, "CASESENSITIVE")
		}
		if f.WithSuffixTrie {
			args = append(args, "WITHSUFFIXTRIE")
		}

	default:
		return nil, errors.New("unknown field type")
	}

	if f.Sortable {
		args = append(args, "SORTABLE")
	}
	if f.Unnormalized {
		args = append(args, "UNF")
	}

	return args, nil
}
