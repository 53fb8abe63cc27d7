package catalog

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

// Query selects documents by field values. Field names are the JSON names
// of the document type; nested fields use dotted paths ("constants.B").
// Queries are plain data: they are evaluated in memory by the file and
// memory stores and translated to BSON filters by the MongoDB store.
type Query interface {
	// Match reports whether a JSON-decoded document matches.
	Match(doc map[string]any) bool

	filter() bson.D
	validate() error
}

// All matches every document.
func All() Query { return allQuery{} }

// Eq matches documents whose field equals value.
func Eq(field string, value any) Query { return eqQuery{field: field, value: value} }

// Between matches documents whose numeric field lies in [lo, hi].
func Between(field string, lo, hi float64) Query {
	if lo > hi {
		lo, hi = hi, lo
	}
	return betweenQuery{field: field, lo: lo, hi: hi}
}

// And matches documents matching every q.
func And(qs ...Query) Query { return logicalQuery{op: "$and", qs: qs} }

// Or matches documents matching at least one q.
func Or(qs ...Query) Query { return logicalQuery{op: "$or", qs: qs} }

// ValidateField checks a dotted field path segment by segment.
func ValidateField(path string) error {
	for _, seg := range strings.Split(path, ".") {
		if err := errs.ValidateFieldName(seg); err != nil {
			return err
		}
	}
	return nil
}

type allQuery struct{}

func (allQuery) Match(map[string]any) bool { return true }
func (allQuery) filter() bson.D            { return bson.D{} }
func (allQuery) validate() error           { return nil }

type eqQuery struct {
	field string
	value any
}

func (q eqQuery) Match(doc map[string]any) bool {
	v, ok := lookup(doc, q.field)
	return ok && reflect.DeepEqual(v, normalize(q.value))
}

func (q eqQuery) filter() bson.D  { return bson.D{{Key: mongoField(q.field), Value: q.value}} }
func (q eqQuery) validate() error { return ValidateField(q.field) }

type betweenQuery struct {
	field  string
	lo, hi float64
}

func (q betweenQuery) Match(doc map[string]any) bool {
	v, ok := lookup(doc, q.field)
	if !ok {
		return false
	}
	f, ok := v.(float64)
	return ok && !math.IsNaN(f) && q.lo <= f && f <= q.hi
}

func (q betweenQuery) filter() bson.D {
	return bson.D{{Key: mongoField(q.field), Value: bson.D{{Key: "$gte", Value: q.lo}, {Key: "$lte", Value: q.hi}}}}
}

func (q betweenQuery) validate() error { return ValidateField(q.field) }

type logicalQuery struct {
	op string
	qs []Query
}

func (q logicalQuery) Match(doc map[string]any) bool {
	if q.op == "$and" {
		for _, sub := range q.qs {
			if !sub.Match(doc) {
				return false
			}
		}
		return true
	}
	for _, sub := range q.qs {
		if sub.Match(doc) {
			return true
		}
	}
	return false
}

func (q logicalQuery) filter() bson.D {
	if len(q.qs) == 0 {
		if q.op == "$and" {
			return bson.D{}
		}
		// An empty $or is rejected by MongoDB; match nothing instead.
		return bson.D{{Key: "_id", Value: bson.D{{Key: "$exists", Value: false}}}}
	}
	arr := make(bson.A, len(q.qs))
	for i, sub := range q.qs {
		arr[i] = sub.filter()
	}
	return bson.D{{Key: q.op, Value: arr}}
}

func (q logicalQuery) validate() error {
	for _, sub := range q.qs {
		if err := sub.validate(); err != nil {
			return err
		}
	}
	return nil
}

// lookup walks a dotted path through nested JSON objects.
func lookup(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// normalize maps v to its JSON-decoded form so that, for instance, an int
// compares equal to the float64 a decoded document holds.
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// mongoField maps the JSON id field to MongoDB's primary key.
func mongoField(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}

// toDoc converts a typed document to its JSON object form.
func toDoc(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode document")
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "decode document")
	}
	return doc, nil
}
