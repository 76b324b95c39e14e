package models

// JSONValue is a generic type to represent any JSON value.
// Concrete types are string, json.Number, bool, nil, *JSONObject and JSONArray.
type JSONValue interface{}

// JSONObject is a JSON object that remembers the order its keys were first seen.
type JSONObject struct {
	keys   []string
	values map[string]JSONValue
}

// NewJSONObject returns an empty object.
func NewJSONObject() *JSONObject {
	return &JSONObject{values: make(map[string]JSONValue)}
}

// Set stores a value. A repeated key keeps its original position and takes the new value.
func (o *JSONObject) Set(key string, value JSONValue) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *JSONObject) Get(key string) (JSONValue, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *JSONObject) Keys() []string {
	return o.keys
}

// Len returns the number of distinct keys.
func (o *JSONObject) Len() int {
	return len(o.keys)
}

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// IntermediateRepresentation holds a parsed document for the converters and
// the analyzer.
type IntermediateRepresentation struct {
	Root JSONValue
}

// Kind names the JSON type of a value.
type Kind string

const (
	KindNull   Kind = "null"
	KindBool   Kind = "boolean"
	KindNumber Kind = "number"
	KindString Kind = "string"
	KindObject Kind = "object"
	KindArray  Kind = "array"
)

// Stats summarizes the shape of a document.
type Stats struct {
	Bytes    int  `json:"bytes" yaml:"bytes"`
	Keys     int  `json:"keys" yaml:"keys"`
	Objects  int  `json:"objects" yaml:"objects"`
	Arrays   int  `json:"arrays" yaml:"arrays"`
	Depth    int  `json:"depth" yaml:"depth"`
	RootKind Kind `json:"root_kind" yaml:"root_kind"`
}
