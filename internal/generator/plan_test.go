package generator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/polytyper/internal/analyzer"
	"github.com/mcncl/polytyper/internal/descriptor"
	"github.com/mcncl/polytyper/internal/options"
	"github.com/mcncl/polytyper/internal/parser"
)

// stubResolver renders types in a small made-up notation.
type stubResolver struct{}

func (stubResolver) PrimitiveType(p *descriptor.Primitive) string { return p.Type.String() }
func (stubResolver) ArrayType(elem string) string                 { return "list<" + elem + ">" }
func (stubResolver) NullableType(inner string) string             { return inner + "?" }
func (stubResolver) UnknownType() string                          { return "any" }
func (stubResolver) TypeName(candidate string) string             { return candidate }
func (stubResolver) FieldName(key string) string                  { return Camel(key) }

func infer(t *testing.T, input string) descriptor.Descriptor {
	t.Helper()
	ir, err := parser.ParseString(input)
	require.NoError(t, err)
	d, err := analyzer.NewAnalyzer().Analyze(ir)
	require.NoError(t, err)
	return d
}

func defNames(p *Plan) []string {
	names := make([]string, 0, len(p.Defs))
	for _, d := range p.Defs {
		names = append(names, d.Name)
	}
	return names
}

func TestPrepare_SimpleObject(t *testing.T) {
	plan := Prepare(infer(t, `{"a":1,"b":"x","c":null}`), options.Default(), stubResolver{})

	require.True(t, plan.RootIsObject)
	assert.Equal(t, "RootType", plan.Name)
	assert.Equal(t, "RootType", plan.RootType)
	require.Len(t, plan.Defs, 1)

	want := []Field{
		{Key: "a", Name: "a", Type: "integer", Desc: descriptor.NewPrimitive(descriptor.Integer)},
		{Key: "b", Name: "b", Type: "string", Desc: descriptor.NewPrimitive(descriptor.String)},
		{Key: "c", Name: "c", Type: "any", Nullable: true, Desc: descriptor.Unknown},
	}
	if diff := cmp.Diff(want, plan.Defs[0].Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepare_NestedNamesAndOrder(t *testing.T) {
	input := `{
		"user_id": 1,
		"profile": {"full_name": "x", "address": {"city": "y"}},
		"tags": ["a"],
		"orders": [{"id": 1, "items": [{"sku": "s"}]}]
	}`
	opts := options.Default()
	opts.RootName = "User"
	plan := Prepare(infer(t, input), opts, stubResolver{})

	assert.Equal(t, []string{"User", "UserProfile", "UserProfileAddress", "UserOrder", "UserOrderItem"}, defNames(plan))

	root := plan.Defs[0]
	assert.Equal(t, "userId", root.Fields[0].Name)
	assert.Equal(t, "user_id", root.Fields[0].Key)
	assert.True(t, root.Fields[0].Renamed())
	assert.Equal(t, "UserProfile", root.Fields[1].Type)
	assert.Equal(t, "list<string>", root.Fields[2].Type)
	assert.Equal(t, "list<UserOrder>", root.Fields[3].Type)
}

func TestPrepare_DeduplicatesEqualShapes(t *testing.T) {
	input := `{"home": {"city": "a", "zip": "1"}, "work": {"city": "b", "zip": "2"}, "other": {"city": "c"}}`
	plan := Prepare(infer(t, input), options.Default(), stubResolver{})

	assert.Equal(t, []string{"RootType", "RootTypeHome", "RootTypeOther"}, defNames(plan))
	assert.Equal(t, "RootTypeHome", plan.Defs[0].Fields[1].Type)
}

func TestPrepare_NameCollisionsGetSuffix(t *testing.T) {
	input := `{"item": {"a": 1}, "items": [{"b": 2}]}`
	opts := options.Default()
	opts.RootName = "Root"
	plan := Prepare(infer(t, input), opts, stubResolver{})

	assert.Equal(t, []string{"Root", "RootItem", "RootItem2"}, defNames(plan))
}

func TestPrepare_FieldNameCollisions(t *testing.T) {
	plan := Prepare(infer(t, `{"user_id": 1, "userId": 2}`), options.Default(), stubResolver{})

	fields := plan.Defs[0].Fields
	assert.Equal(t, "userId", fields[0].Name)
	assert.Equal(t, "userId2", fields[1].Name)
}

func TestPrepare_FieldNameOverrides(t *testing.T) {
	opts := options.Default()
	opts.FieldNames = map[string]string{"ts": "timestamp"}
	plan := Prepare(infer(t, `{"ts": 1, "name": "x"}`), opts, stubResolver{})

	assert.Equal(t, "timestamp", plan.Defs[0].Fields[0].Name)
	assert.Equal(t, "name", plan.Defs[0].Fields[1].Name)
}

func TestPrepare_NonObjectRoots(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		rootName string
		wantType string
		wantDefs []string
	}{
		{"empty array", `[]`, "", "list<any>", nil},
		{"array of objects", `[{"id": 1}]`, "", "list<RootTypeItem>", []string{"RootTypeItem"}},
		{"plural root name", `[{"id": 1}]`, "Users", "list<User>", []string{"User"}},
		{"nested arrays", `[[1]]`, "", "list<list<integer>>", nil},
		{"array with null", `[null]`, "", "list<any?>", nil},
		{"string", `"x"`, "", "string", nil},
		{"null", `null`, "", "any?", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Default()
			if tt.rootName != "" {
				opts.RootName = tt.rootName
			}
			plan := Prepare(infer(t, tt.input), opts, stubResolver{})
			assert.False(t, plan.RootIsObject)
			assert.Equal(t, tt.wantType, plan.RootType)
			if tt.wantDefs == nil {
				assert.Empty(t, plan.Defs)
			} else {
				assert.Equal(t, tt.wantDefs, defNames(plan))
			}
		})
	}
}

func TestPrepare_InvalidRootNameIsConverted(t *testing.T) {
	opts := options.Default()
	opts.RootName = "api response"
	plan := Prepare(infer(t, `{"a": 1}`), opts, stubResolver{})
	assert.Equal(t, "ApiResponse", plan.Name)
}

func TestPrepare_OptionalFieldsFromDescriptor(t *testing.T) {
	root := descriptor.NewObject([]descriptor.Field{
		{Name: "id", Type: descriptor.NewPrimitive(descriptor.Integer)},
		{Name: "note", Type: descriptor.NewNullable(descriptor.NewPrimitive(descriptor.String)), Optional: true},
	})
	plan := Prepare(root, options.Default(), stubResolver{})

	note := plan.Defs[0].Fields[1]
	assert.True(t, note.Optional)
	assert.True(t, note.Nullable)
	assert.Equal(t, "string", note.Type)
}

func TestPrepare_DoesNotMutateDescriptor(t *testing.T) {
	root := infer(t, `{"a": 1, "b": {"c": [null]}, "d": []}`)
	before := root.String()

	Prepare(root, options.Default(), stubResolver{})
	opts := options.Default()
	opts.RootName = "Other"
	opts.FieldNames = map[string]string{"a": "alpha"}
	Prepare(root, opts, stubResolver{})

	assert.Equal(t, before, root.String())
}

func TestPlan_Resolve(t *testing.T) {
	root := infer(t, `{"child": {"x": 1}}`)
	plan := Prepare(root, options.Default(), stubResolver{})

	child, _ := root.(*descriptor.Object).Field("child")
	assert.Equal(t, "list<RootTypeChild?>", plan.Resolve(descriptor.NewArray(descriptor.NewNullable(child.Type)), stubResolver{}))
	assert.Equal(t, "any", plan.Resolve(descriptor.NewObject(nil), stubResolver{}))
}
