package view

// Layout is one entry of a template's layout chain: the name of the wrapping
// template plus the data passed to its render.
type Layout struct {
	Name string
	Data map[string]any
}

// SetLayout replaces the layout chain with a single entry.
func (t *Template) SetLayout(name string, data map[string]any) {
	t.layouts = []Layout{{Name: name, Data: data}}
}

// SetLayouts replaces the layout chain with the given entries. When outward
// is true the entries are given innermost-first (closest to the template) and
// stored as given; otherwise the list is reversed on store. An empty list
// clears the chain.
func (t *Template) SetLayouts(entries []Layout, outward bool) {
	if len(entries) == 0 {
		t.layouts = nil
		return
	}
	chain := make([]Layout, len(entries))
	copy(chain, entries)
	if !outward {
		reverseLayouts(chain)
	}
	t.layouts = chain
}

// AddLayout inserts one entry into the chain. With front=true the entry
// becomes the next-innermost layer, rendered before all current entries;
// otherwise it becomes the outermost layer.
func (t *Template) AddLayout(front bool, name string, data map[string]any) {
	entry := Layout{Name: name, Data: data}
	if front {
		t.layouts = append([]Layout{entry}, t.layouts...)
		return
	}
	t.layouts = append(t.layouts, entry)
}

// AddLayouts bulk-inserts entries, honoring both the placement side and the
// traversal order of the list. When front == outward the batch is reversed
// before the one-by-one insertion; this keeps "outward" meaning the same
// thing whether the batch lands at the front or at the back of the chain.
func (t *Template) AddLayouts(front bool, entries []Layout, outward bool) {
	if len(entries) == 0 {
		return
	}
	batch := make([]Layout, len(entries))
	copy(batch, entries)
	if front == outward {
		reverseLayouts(batch)
	}
	for _, entry := range batch {
		t.AddLayout(front, entry.Name, entry.Data)
	}
}

// Layouts returns a copy of the chain in stored order, innermost first.
func (t *Template) Layouts() []Layout {
	out := make([]Layout, len(t.layouts))
	copy(out, t.layouts)
	return out
}

// foldLayouts wraps content through the chain. Each layer receives a merged
// copy of the sections accumulated so far with "content" set to the previous
// result, renders through the ordinary pipeline, and hands its own section
// map (which its body may have extended or overwritten) to the next layer.
func (t *Template) foldLayouts(content string) (string, error) {
	current := t.sections
	for _, layer := range t.layouts {
		inst := t.engine.Template(layer.Name, nil)
		merged := make(map[string]string, len(current)+1)
		for name, value := range current {
			merged[name] = value
		}
		merged[ContentSection] = content
		inst.sections = merged

		out, err := inst.Render(layer.Data)
		if err != nil {
			return "", err
		}
		content = out
		current = inst.sections
	}
	return content, nil
}

func reverseLayouts(entries []Layout) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
