package redis

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/showroom/internal/db"
	"github.com/kailas-cloud/showroom/internal/domain/product/field"
	"github.com/kailas-cloud/showroom/internal/domain/search/filter"
	"github.com/kailas-cloud/showroom/internal/domain/search/sortby"
)

func floatPtr(f float64) *float64 { return &f }

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Index Already Exists", "index already exists", true},
		{"UNKNOWN INDEX NAME", "unknown index name", true},
		{"hello world", "world", true},
		{"short", "longer than input", false},
		{"exact", "exact", true},
		{"", "", true},
		{"notempty", "", true},
	}
	for _, tc := range tests {
		got := containsIgnoreCase(tc.s, tc.sub)
		if got != tc.want {
			t.Errorf("containsIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}

// --- document.go tests ---

func TestPut_Created(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("EXISTS", DefaultKeyPrefix+"p1")).
			Return(mock.Result(mock.RedisInt64(0))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("JSON.SET", DefaultKeyPrefix+"p1", "$", `{"name":"A"}`)).
			Return(mock.Result(mock.RedisString("OK"))),
	)

	s := NewStoreForTest(c)
	created, err := s.Put(context.Background(), db.Document{ID: "p1", Data: []byte(`{"name":"A"}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
}

func TestPut_Updated(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "EXISTS" })).
		Return(mock.Result(mock.RedisInt64(1)))
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "JSON.SET" })).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	created, err := s.Put(context.Background(), db.Document{ID: "p1", Data: []byte(`{}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false")
	}
}

func TestPut_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "EXISTS" })).
		Return(mock.Result(mock.RedisInt64(0)))
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "JSON.SET" })).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Put(context.Background(), db.Document{ID: "p1", Data: []byte(`{}`)})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestPutMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString("OK")),
			mock.Result(mock.RedisString("OK")),
		})

	s := NewStoreForTest(c)
	err := s.PutMulti(context.Background(), []db.Document{
		{ID: "a", Data: []byte(`{}`)},
		{ID: "b", Data: []byte(`{}`)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPutMulti_PartialError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString("OK")),
			mock.ErrorResult(context.DeadlineExceeded),
		})

	s := NewStoreForTest(c)
	err := s.PutMulti(context.Background(), []db.Document{
		{ID: "a", Data: []byte(`{}`)},
		{ID: "b", Data: []byte(`{}`)},
	})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestPutMulti_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	if err := s.PutMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", DefaultKeyPrefix+"p1")).
		Return(mock.Result(mock.RedisBlobString(`{"_id":"p1"}`)))

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"_id":"p1"}` {
		t.Errorf("data = %s", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", DefaultKeyPrefix+"missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name    string
		deleted int64
		wantErr error
	}{
		{"deleted", 1, nil},
		{"missing", 0, db.ErrKeyNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)

			c.EXPECT().
				Do(gomock.Any(), mock.Match("DEL", DefaultKeyPrefix+"p1")).
				Return(mock.Result(mock.RedisInt64(tt.deleted)))

			s := NewStoreForTest(c)
			err := s.Delete(context.Background(), "p1")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// --- schema.go tests ---

func TestProductIndex(t *testing.T) {
	def, err := ProductIndex("products", "p:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.StorageType != db.StorageJSON {
		t.Errorf("storage = %s, want JSON", def.StorageType)
	}
	if len(def.Fields) != len(field.All()) {
		t.Fatalf("fields = %d, want %d", len(def.Fields), len(field.All()))
	}

	byAlias := make(map[string]db.IndexField)
	for _, f := range def.Fields {
		byAlias[f.Alias] = f
	}
	if f := byAlias["pid"]; !f.TagCaseSensitive || !f.Sortable {
		t.Errorf("pid = %+v", f)
	}
	if f := byAlias["name"]; !f.Sortable || !f.Unnormalized {
		t.Errorf("name should sort by raw value: %+v", f)
	}
	if f := byAlias["price"]; f.Unnormalized {
		t.Errorf("price = %+v", f)
	}
	if f := byAlias["tags"]; f.Name != "$.tags[*]" || !f.WithSuffixTrie {
		t.Errorf("tags = %+v", f)
	}
	if f := byAlias["price"]; f.Type != db.IndexFieldNumeric || !f.Sortable {
		t.Errorf("price = %+v", f)
	}
	if f := byAlias["created_ts"]; f.Name != "$.__created_ts" {
		t.Errorf("created_ts = %+v", f)
	}
}

// infoReply renders an FT.INFO reply whose attributes mirror def. Tags declared
// with a separator report sep; the rest report the server default.
func infoReply(def *db.IndexDefinition, sep string) rueidis.RedisMessage {
	attrs := make([]rueidis.RedisMessage, 0, len(def.Fields))
	for _, f := range def.Fields {
		entry := []rueidis.RedisMessage{
			mock.RedisString("identifier"), mock.RedisString(f.Name),
			mock.RedisString("attribute"), mock.RedisString(f.Alias),
		}
		if f.Type == db.IndexFieldTag {
			got := ","
			if f.TagSeparator != "" {
				got = sep
			}
			entry = append(entry,
				mock.RedisString("type"), mock.RedisString("TAG"),
				mock.RedisString("SEPARATOR"), mock.RedisString(got))
		} else {
			entry = append(entry, mock.RedisString("type"), mock.RedisString("NUMERIC"))
		}
		if f.Sortable {
			entry = append(entry, mock.RedisString("SORTABLE"))
		}
		if f.Unnormalized {
			entry = append(entry, mock.RedisString("UNF"))
		}
		attrs = append(attrs, mock.RedisArray(entry...))
	}
	return mock.RedisArray(
		mock.RedisString("index_name"), mock.RedisString(DefaultIndexName),
		mock.RedisString("attributes"), mock.RedisArray(attrs...),
		mock.RedisString("num_docs"), mock.RedisInt64(12),
	)
}

func productIndex(t *testing.T) *db.IndexDefinition {
	t.Helper()
	def, err := ProductIndex(DefaultIndexName, DefaultKeyPrefix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return def
}

// hasSeparator reports whether FT.CREATE declares "AS alias TAG SEPARATOR sep".
func hasSeparator(cmd []string, alias, sep string) bool {
	for i := 0; i+4 < len(cmd); i++ {
		if cmd[i] == "AS" && cmd[i+1] == alias {
			return cmd[i+2] == "TAG" && cmd[i+3] == "SEPARATOR" && cmd[i+4] == sep
		}
	}
	return false
}

func TestProductIndex_TextSeparator(t *testing.T) {
	def := productIndex(t)
	for _, f := range def.Fields {
		if f.Type == db.IndexFieldTag && f.Alias != "inStock" && f.TagSeparator != "|" {
			t.Errorf("%s separator = %q, want |", f.Alias, f.TagSeparator)
		}
	}
}

func TestEnsureSchema_Creates(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", DefaultIndexName)).
			Return(mock.Result(mock.RedisError("Unknown Index name"))),
		c.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				if cmd[0] != "FT.CREATE" || cmd[1] != DefaultIndexName ||
					!slices.Contains(cmd, "WITHSUFFIXTRIE") || !slices.Contains(cmd, DefaultKeyPrefix) {
					return false
				}
				for _, as := range []string{"pid", "name", "description", "category", "tags", "features", "size", "finish"} {
					if !hasSeparator(cmd, as, "|") {
						return false
					}
				}
				return true
			})).
			Return(mock.Result(mock.RedisString("OK"))),
	)

	s := NewStoreForTest(c)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureSchema_UpToDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", DefaultIndexName)).
		Return(mock.Result(infoReply(productIndex(t), "|")))

	s := NewStoreForTest(c)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureSchema_RebuildsStaleIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", DefaultIndexName)).
			Return(mock.Result(infoReply(productIndex(t), ","))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.DROPINDEX", DefaultIndexName)).
			Return(mock.Result(mock.RedisString("OK"))),
		c.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				return cmd[0] == "FT.CREATE" && hasSeparator(cmd, "name", "|")
			})).
			Return(mock.Result(mock.RedisString("OK"))),
	)

	s := NewStoreForTest(c)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureSchema_ConcurrentCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", DefaultIndexName)).
		Return(mock.Result(mock.RedisError("Unknown Index name")))
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("expected nil for existing index, got %v", err)
	}
}

func TestEnsureSchema_InfoFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", DefaultIndexName)).
		Return(mock.Result(mock.RedisError("ERR permission denied")))

	s := NewStoreForTest(c)
	err := s.EnsureSchema(context.Background())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpIndexInfo {
		t.Errorf("expected FT.INFO error, got %v", err)
	}
}

func TestSchemaMatches(t *testing.T) {
	def := productIndex(t)
	current := map[string]liveAttribute{}
	for _, f := range def.Fields {
		attr := liveAttribute{separator: f.TagSeparator, unnormalized: f.Unnormalized}
		if f.Type == db.IndexFieldTag && f.TagSeparator == "" {
			attr.separator = ","
		}
		current[f.Alias] = attr
	}
	if !schemaMatches(def, current) {
		t.Error("identical attributes should match")
	}

	missing := maps.Clone(current)
	delete(missing, "finish")
	if schemaMatches(def, missing) {
		t.Error("missing attribute should not match")
	}

	stale := maps.Clone(current)
	stale["name"] = liveAttribute{separator: ",", unnormalized: true}
	if schemaMatches(def, stale) {
		t.Error("different separator should not match")
	}

	normalized := maps.Clone(current)
	normalized["name"] = liveAttribute{separator: "|"}
	if schemaMatches(def, normalized) {
		t.Error("normalized sort key should not match")
	}
}

func TestParseAttribute(t *testing.T) {
	msg := mock.RedisArray(
		mock.RedisString("identifier"), mock.RedisString("$.name"),
		mock.RedisString("attribute"), mock.RedisString("name"),
		mock.RedisString("type"), mock.RedisString("TAG"),
		mock.RedisString("SEPARATOR"), mock.RedisString("|"),
		mock.RedisString("WITHSUFFIXTRIE"),
		mock.RedisString("SORTABLE"), mock.RedisString("UNF"),
	)
	as, attr := parseAttribute(&msg)
	if as != "name" || attr.separator != "|" || !attr.unnormalized {
		t.Errorf("parseAttribute = %q, %+v", as, attr)
	}

	msg = mock.RedisArray(
		mock.RedisString("attribute"), mock.RedisString("inStock"),
		mock.RedisString("type"), mock.RedisString("TAG"),
	)
	if as, attr := parseAttribute(&msg); as != "inStock" || attr.separator != "," || attr.unnormalized {
		t.Errorf("default separator: %q, %+v", as, attr)
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "gone")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "gone"); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestBuildFieldArgs(t *testing.T) {
	args, err := buildFieldArgs(&db.IndexField{
		Name: "$.name", Alias: "name", Type: db.IndexFieldTag,
		TagSeparator: "|", WithSuffixTrie: true, Sortable: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "$.name AS name TAG SEPARATOR | WITHSUFFIXTRIE SORTABLE"
	if got := strings.Join(args, " "); got != want {
		t.Errorf("args = %q, want %q", got, want)
	}

	args, err = buildFieldArgs(&db.IndexField{
		Name: "$.name", Alias: "name", Type: db.IndexFieldTag, Sortable: true, Unnormalized: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(args, " "); got != "$.name AS name TAG SORTABLE UNF" {
		t.Errorf("unnormalized args = %q", got)
	}
}

func TestEnsureSchema_NameSortsBytewise(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", DefaultIndexName)).
		Return(mock.Result(mock.RedisError("Unknown Index name")))
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			i := slices.Index(cmd, "$.name")
			return cmd[0] == "FT.CREATE" && i > 0 &&
				slices.Equal(cmd[i:i+9], []string{"$.name", "AS", "name", "TAG", "SEPARATOR", "|", "WITHSUFFIXTRIE", "SORTABLE", "UNF"})
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- query.go tests ---

func TestBuildQuery(t *testing.T) {
	contains, _ := filter.NewContains(field.Category, "Ceramic")
	price, _ := filter.Between(floatPtr(50), nil)
	priceCond, _ := filter.NewRange(field.Price, price)
	stock, _ := filter.NewFlag(field.InStock, true)
	name, _ := filter.NewContains(field.Name, "big tile")
	tags, _ := filter.NewContains(field.Tags, "a-b")
	created, _ := filter.Between(nil, floatPtr(10))
	createdCond, _ := filter.NewRange(field.CreatedAt, created)

	tests := []struct {
		name   string
		must   []filter.Condition
		should []filter.Condition
		want   string
	}{
		{"empty", nil, nil, "*"},
		{"contains folds case", []filter.Condition{contains}, nil, "@category:{*ceramic*}"},
		{"range open upper", []filter.Condition{priceCond}, nil, "@price:[50 +inf]"},
		{"flag", []filter.Condition{stock}, nil, "@inStock:{true}"},
		{"aliased field", []filter.Condition{createdCond}, nil, "@created_ts:[-inf 10]"},
		{
			"must and should",
			[]filter.Condition{stock},
			[]filter.Condition{name, tags},
			`@inStock:{true} (@name:{*big\ tile*} | @tags:{*a\-b*})`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := filter.NewExpression(tt.must, tt.should)
			if err != nil {
				t.Fatal(err)
			}
			if got := buildQuery(expr); got != tt.want {
				t.Errorf("buildQuery = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildNumericFilter_Exclusive(t *testing.T) {
	r, _ := filter.NewRangeFilter(floatPtr(1), nil, floatPtr(5), nil)
	if got := buildNumericFilter("price", r); got != "@price:[(1 (5]" {
		t.Errorf("got %q", got)
	}
}

func TestBuildSortArgs(t *testing.T) {
	got := strings.Join(buildSortArgs(sortby.Newest.Orders()), " ")
	if want := "SORTBY 4 @created_ts DESC @pid ASC"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	got = strings.Join(buildSortArgs(nil), " ")
	if want := "SORTBY 2 @pid ASC"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// --- search.go tests ---

func TestFind_ParsesDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.AGGREGATE" && cmd[1] == DefaultIndexName &&
				slices.Contains(cmd, "@price") && slices.Contains(cmd, "LIMIT") &&
				cmd[len(cmd)-4] == "5" && cmd[len(cmd)-3] == "5"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisArray(
				mock.RedisString("price"), mock.RedisString("10"),
				mock.RedisString("pid"), mock.RedisString("a"),
				mock.RedisString("doc"), mock.RedisString(`{"_id":"a"}`),
				mock.RedisString("id"), mock.RedisString("a"),
			),
			mock.RedisArray(
				mock.RedisString("doc"), mock.RedisString(`{"_id":"b"}`),
				mock.RedisString("id"), mock.RedisString("b"),
			),
		)))

	s := NewStoreForTest(c)
	docs, err := s.Find(context.Background(), &db.FindQuery{
		Sort: sortby.PriceAsc.Orders(), Offset: 5, Limit: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "a" || string(docs[1].Data) != `{"_id":"b"}` {
		t.Errorf("docs = %+v", docs)
	}
}

func TestFind_IndexMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.AGGREGATE" })).
		Return(mock.Result(mock.RedisError("products: no such index")))

	s := NewStoreForTest(c)
	_, err := s.Find(context.Background(), &db.FindQuery{Limit: 1})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", DefaultIndexName, "*", "LIMIT", "0", "0", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(42))))

	s := NewStoreForTest(c)
	n, err := s.Count(context.Background(), &db.CountQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 42 {
		t.Errorf("count = %d, want 42", n)
	}
}

func TestCount_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.SEARCH" })).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if _, err := s.Count(context.Background(), &db.CountQuery{}); !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestGroupCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.AGGREGATE" && slices.Contains(cmd, "GROUPBY") && slices.Contains(cmd, "@category")
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisArray(mock.RedisString("category"), mock.RedisString("Ceramic"), mock.RedisString("count"), mock.RedisString("10")),
			mock.RedisArray(mock.RedisString("category"), mock.RedisString("Marble"), mock.RedisString("count"), mock.RedisString("2")),
		)))

	s := NewStoreForTest(c)
	buckets, err := s.GroupCount(context.Background(), &db.GroupQuery{Field: field.Category})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []db.Bucket{{Value: "Ceramic", Count: 10}, {Value: "Marble", Count: 2}}
	if !slices.Equal(buckets, want) {
		t.Errorf("buckets = %v, want %v", buckets, want)
	}
}

func TestGroupCount_RejectsNumeric(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	if _, err := s.GroupCount(context.Background(), &db.GroupQuery{Field: field.Price}); err == nil {
		t.Fatal("expected error")
	}
}

func TestStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.AGGREGATE" && slices.Contains(cmd, "AVG")
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisArray(
				mock.RedisString("count"), mock.RedisString("3"),
				mock.RedisString("min"), mock.RedisString("50"),
				mock.RedisString("max"), mock.RedisString("70"),
				mock.RedisString("avg"), mock.RedisString("60"),
			),
		)))

	s := NewStoreForTest(c)
	st, err := s.Stats(context.Background(), &db.StatsQuery{Field: field.Price})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != (db.Stats{Count: 3, Min: 50, Max: 70, Avg: 60}) {
		t.Errorf("stats = %+v", st)
	}
}

func TestStats_EmptyGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.AGGREGATE" })).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	st, err := s.Stats(context.Background(), &db.StatsQuery{Field: field.Price})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Count != 0 {
		t.Errorf("count = %d, want 0", st.Count)
	}
}

func TestDistinct_ListField(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.AGGREGATE" && slices.Contains(cmd, "$.tags")
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisArray(mock.RedisString("v"), mock.RedisString(`["kitchen","wall"]`)),
			mock.RedisArray(mock.RedisString("v"), mock.RedisString(`["bathroom","kitchen"]`)),
		)))

	s := NewStoreForTest(c)
	got, err := s.Distinct(context.Background(), &db.DistinctQuery{Field: field.Tags})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"bathroom", "kitchen", "wall"}; !slices.Equal(got, want) {
		t.Errorf("distinct = %v, want %v", got, want)
	}
}

// aggregateLimit matches an id-ordered FT.AGGREGATE page.
func aggregateLimit(offset, size string) gomock.Matcher {
	return mock.MatchFn(func(cmd []string) bool {
		i := slices.Index(cmd, "LIMIT")
		return cmd[0] == "FT.AGGREGATE" && slices.Contains(cmd, "@pid") &&
			i > 0 && i+2 < len(cmd) && cmd[i+1] == offset && cmd[i+2] == size
	})
}

func TestDistinct_ReadsEveryPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	page := func(offset string) gomock.Matcher { return aggregateLimit(offset, "2") }
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), page("0")).Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(5),
			mock.RedisArray(mock.RedisString("v"), mock.RedisString("Matte")),
			mock.RedisArray(mock.RedisString("v"), mock.RedisString("Polished")),
		))),
		c.EXPECT().Do(gomock.Any(), page("2")).Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(5),
			mock.RedisArray(mock.RedisString("v"), mock.RedisString("Matte")),
			mock.RedisArray(mock.RedisString("v"), mock.RedisString("Glossy")),
		))),
		c.EXPECT().Do(gomock.Any(), page("4")).Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(5),
			mock.RedisArray(mock.RedisString("v"), mock.RedisString("Textured")),
		))),
	)

	s := NewStoreForTest(c)
	s.aggregatePage = 2
	got, err := s.Distinct(context.Background(), &db.DistinctQuery{Field: field.Finish})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"Glossy", "Matte", "Polished", "Textured"}; !slices.Equal(got, want) {
		t.Errorf("distinct = %v, want %v", got, want)
	}
}

func TestDistinct_EmptyPageStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), aggregateLimit("0", "1")).Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisArray(mock.RedisString("v"), mock.RedisString("Matte")),
		))),
		c.EXPECT().Do(gomock.Any(), aggregateLimit("1", "1")).Return(mock.Result(mock.RedisArray(mock.RedisInt64(1)))),
	)

	s := NewStoreForTest(c)
	s.aggregatePage = 1
	got, err := s.Distinct(context.Background(), &db.DistinctQuery{Field: field.Finish})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{"Matte"}) {
		t.Errorf("distinct = %v", got)
	}
}

func TestDecodeValues(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"Marble", []string{"Marble"}},
		{`"Marble"`, []string{"Marble"}},
		{`["a","b"]`, []string{"a", "b"}},
		{`[["a","b"]]`, []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := decodeValues(tt.raw); !slices.Equal(got, tt.want) {
			t.Errorf("decodeValues(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
