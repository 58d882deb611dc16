package model

// Group is a set of records that normalized to the same signature.
type Group struct {
	Signature      string          `json:"-"` // grouping key, never surfaced to users
	Count          int             `json:"count"`
	Representative ExceptionRecord `json:"representative"` // first-seen record
	Anchor         []StackFrame    `json:"anchor,omitempty"` // first frame location seen across members
}

// AnchorString renders the group's anchor frames as "file:line" joined
// by ", ". Empty when no member carried a usable frame.
func (g Group) AnchorString() string {
	s := ""
	for i, f := range g.Anchor {
		if i > 0 {
			s += ", "
		}
		s += f.String()
	}
	return s
}
