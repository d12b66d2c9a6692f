package driver

import (
	"calltraits/internal/sig"
	"calltraits/internal/types"
)

// AliasResult is the classification of one named type, flattened to
// labels so that it outlives its interner and can be cached.
type AliasResult struct {
	Name string `json:"name" msgpack:"name"`
	Type string `json:"type" msgpack:"type"`

	Start uint32 `json:"-" msgpack:"start"`
	End   uint32 `json:"-" msgpack:"end"`

	Invocable  bool     `json:"invocable" msgpack:"invocable"`
	Path       string   `json:"path,omitempty" msgpack:"path"`
	Signature  string   `json:"signature,omitempty" msgpack:"signature"`
	Class      string   `json:"class,omitempty" msgpack:"class"`
	Result     string   `json:"result,omitempty" msgpack:"result"`
	Params     []string `json:"params,omitempty" msgpack:"params"`
	Arity      int      `json:"arity" msgpack:"arity"`
	Qualifiers string   `json:"qualifiers,omitempty" msgpack:"qualifiers"`
	Const      bool     `json:"const" msgpack:"const"`
	Volatile   bool     `json:"volatile" msgpack:"volatile"`
	Ref        string   `json:"ref" msgpack:"ref"`
	Variadic   bool     `json:"variadic" msgpack:"variadic"`
	NoThrow    bool     `json:"nothrow" msgpack:"nothrow"`
	Error      string   `json:"error,omitempty" msgpack:"error"`
}

// Summarize classifies id and renders the outcome. A type that is not
// invocable yields Invocable=false and the classifier's error text.
func Summarize(in *types.Interner, name string, id types.TypeID) AliasResult {
	s := AliasResult{Name: name, Type: types.Label(in, id)}
	c, err := sig.Classify(in, id)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	d := c.Descriptor
	s.Invocable = true
	s.Path = c.PathString()
	s.Signature = types.Label(in, c.Function)
	if c.Class != types.NoTypeID {
		s.Class = types.Label(in, c.Class)
	}
	s.Result = types.Label(in, d.Result)
	s.Params = make([]string, len(d.Params))
	for i, p := range d.Params {
		s.Params[i] = types.Label(in, p)
	}
	s.Arity = d.Arity()
	s.Qualifiers = d.Qualifiers().String()
	s.Const = d.Const
	s.Volatile = d.Volatile
	s.Ref = d.Ref.String()
	s.Variadic = d.Variadic
	s.NoThrow = d.NoThrow
	return s
}
