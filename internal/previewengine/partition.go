package previewengine

// Partition splits events into the visible operator layer (stages 1-7) and
// the hidden developer/auditor layer (stages 8-10). Pure stateless filter:
// relative order is preserved within each output, every input event lands in
// exactly one output, and empty input yields two empty slices.
func Partition(events []Event) (visible, hidden []Event) {
	visible = make([]Event, 0, len(events))
	hidden = make([]Event, 0, len(events))
	for _, e := range events {
		if e.Stage <= VisibleStageMax {
			visible = append(visible, e)
		} else {
			hidden = append(hidden, e)
		}
	}
	return visible, hidden
}
