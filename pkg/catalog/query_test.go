package catalog

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

func TestQueryMatch(t *testing.T) {
	doc := map[string]any{
		"name":       "hc3n",
		"frequency":  9098.332,
		"experiment": float64(3),
		"constants":  map[string]any{"B": 4549.0586},
	}

	tests := []struct {
		name string
		q    Query
		want bool
	}{
		{"all", All(), true},
		{"eq string", Eq("name", "hc3n"), true},
		{"eq string miss", Eq("name", "hc5n"), false},
		{"eq int against float", Eq("experiment", 3), true},
		{"eq missing field", Eq("formula", "HC3N"), false},
		{"between inside", Between("frequency", 9098, 9099), true},
		{"between edge", Between("frequency", 9098.332, 9100), true},
		{"between outside", Between("frequency", 1, 2), false},
		{"between reversed", Between("frequency", 9099, 9098), true},
		{"between non-numeric", Between("name", 0, 1), false},
		{"nested", Between("constants.B", 4549, 4550), true},
		{"nested missing", Between("constants.A", 0, 1e9), false},
		{"path through scalar", Eq("name.first", "h"), false},
		{"and", And(Eq("name", "hc3n"), Eq("experiment", 3)), true},
		{"and one miss", And(Eq("name", "hc3n"), Eq("experiment", 4)), false},
		{"or", Or(Eq("name", "x"), Eq("experiment", 3)), true},
		{"empty and", And(), true},
		{"empty or", Or(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Match(doc); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		wantErr bool
	}{
		{"plain", Eq("name", "x"), false},
		{"dotted", Between("constants.D_J", 0, 1), false},
		{"operator", Eq("$where", "1"), true},
		{"empty segment", Eq("constants.", 1), true},
		{"nested invalid", Or(Eq("name", "x"), And(Eq("a b", 1))), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidInput)
			}
		})
	}
}

func TestQueryFilter(t *testing.T) {
	got := Or(Eq("id", "abc"), Between("frequency", 2, 1)).filter()
	want := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "_id", Value: "abc"}},
		bson.D{{Key: "frequency", Value: bson.D{{Key: "$gte", Value: 1.0}, {Key: "$lte", Value: 2.0}}}},
	}}}

	gotBytes, err := bson.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	wantBytes, err := bson.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotBytes) != string(wantBytes) {
		t.Errorf("filter() = %v, want %v", got, want)
	}

	if f := Or().filter(); len(f) != 1 || f[0].Key != "_id" {
		t.Errorf("empty Or filter = %v, want match-nothing _id filter", f)
	}
	if f := All().filter(); len(f) != 0 {
		t.Errorf("All filter = %v, want empty", f)
	}
}
