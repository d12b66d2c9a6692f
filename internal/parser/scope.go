package parser

import (
	"slices"

	"calltraits/internal/source"
	"calltraits/internal/types"
)

// DefaultWrappers are the template names accepted as reference wrappers
// when none are configured.
var DefaultWrappers = []string{types.WrapperName, "reference_wrapper"}

type binding struct {
	id    types.TypeID
	span  source.Span
	alias bool
}

// Scope is the set of names visible to type expressions: classes and
// aliases declared so far, plus the configured wrapper templates. One Scope
// owns one interner and must not be shared between goroutines.
type Scope struct {
	in       *types.Interner
	names    map[string]binding
	wrappers []string
	calls    map[types.TypeID]source.Span // call operator spans, for notes
	members  map[types.TypeID]map[string]source.Span
}

// NewScope creates an empty scope over in. No wrappers means DefaultWrappers.
func NewScope(in *types.Interner, wrappers ...string) *Scope {
	if len(wrappers) == 0 {
		wrappers = DefaultWrappers
	}
	return &Scope{
		in:       in,
		names:    make(map[string]binding),
		wrappers: slices.Clone(wrappers),
		calls:    make(map[types.TypeID]source.Span),
		members:  make(map[types.TypeID]map[string]source.Span),
	}
}

func (s *Scope) Types() *types.Interner {
	return s.in
}

// Lookup resolves a declared class or alias name.
func (s *Scope) Lookup(name string) (types.TypeID, bool) {
	b, ok := s.names[name]
	return b.id, ok
}

// IsAlias reports whether name was introduced by "using".
func (s *Scope) IsAlias(name string) bool {
	return s.names[name].alias
}

// IsWrapper reports whether name is a configured reference wrapper template.
func (s *Scope) IsWrapper(name string) bool {
	return slices.Contains(s.wrappers, name)
}

// Wrappers returns the configured wrapper template names.
func (s *Scope) Wrappers() []string {
	return slices.Clone(s.wrappers)
}

func (s *Scope) declared(name string) (binding, bool) {
	b, ok := s.names[name]
	return b, ok
}

func (s *Scope) bind(name string, b binding) {
	s.names[name] = b
}

// memberSpan records a member name and returns the span of an earlier
// member with the same name.
func (s *Scope) memberSpan(class types.TypeID, name string, sp source.Span) (source.Span, bool) {
	m := s.members[class]
	if m == nil {
		m = make(map[string]source.Span)
		s.members[class] = m
	}
	if prev, ok := m[name]; ok {
		return prev, true
	}
	m[name] = sp
	return source.Span{}, false
}
