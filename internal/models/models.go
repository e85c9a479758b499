package models

// JSONValue is a generic type to represent any parsed sample value.
// This can be a string, json.Number, bool, nil, *JSONObject or JSONArray.
type JSONValue interface{}

// Member is one key/value pair of a JSONObject.
type Member struct {
	Key   string
	Value JSONValue
}

// JSONObject is an object that remembers the order its keys first appeared in.
// A repeated key keeps its first position and takes the last value.
type JSONObject struct {
	members []Member
	index   map[string]int
}

// NewJSONObject creates an empty object.
func NewJSONObject() *JSONObject {
	return &JSONObject{index: make(map[string]int)}
}

// Set adds or replaces a member.
func (o *JSONObject) Set(key string, value JSONValue) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = value
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: value})
}

// Get returns the value stored under key.
func (o *JSONObject) Get(key string) (JSONValue, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Keys returns the keys in first-seen order.
func (o *JSONObject) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Members returns the members in first-seen order.
func (o *JSONObject) Members() []Member {
	out := make([]Member, len(o.members))
	copy(out, o.members)
	return out
}

// Len returns the number of distinct keys.
func (o *JSONObject) Len() int { return len(o.members) }

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// IntermediateRepresentation holds the parsed sample in a way that's easy for
// the analyzer to work with.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the sample is an array vs an object
}
