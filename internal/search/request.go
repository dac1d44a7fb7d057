package search

// Kind selects what the finder enumerates.
type Kind string

const (
	KindDirectory Kind = "d"
	KindFile      Kind = "f"
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return string(k)
	}
}

// Request is one finder invocation: a kind over an ordered list of roots.
// It is immutable once built.
type Request struct {
	kind  Kind
	roots []string
}

// NewRequest builds a request, copying roots.
func NewRequest(kind Kind, roots []string) Request {
	return Request{kind: kind, roots: append([]string(nil), roots...)}
}

func (r Request) Kind() Kind { return r.kind }

// Roots returns a copy of the search roots.
func (r Request) Roots() []string {
	return append([]string(nil), r.roots...)
}
