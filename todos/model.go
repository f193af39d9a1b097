package todos

type Todo struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	// Complete defaults to false on insert
	Complete bool `json:"complete"`
}

// Patch carries a partial update. A nil field means "not supplied" and leaves
// the stored value untouched. ID is accepted on the wire but never applied.
type Patch struct {
	ID       *int64  `json:"id,omitempty"`
	Text     *string `json:"text,omitempty"`
	Complete *bool   `json:"complete,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Complete == nil
}

// Apply overwrites the supplied fields on t in place. The id is never touched.
func (p Patch) Apply(t *Todo) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Complete != nil {
		t.Complete = *p.Complete
	}
}
