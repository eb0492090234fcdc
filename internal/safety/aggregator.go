package safety

// Aggregate evaluates every product independently against the profile
// and returns the rendered warning messages with duplicates collapsed.
// Two warnings whose rendered text is byte-identical (the same "contains
// peanuts" notice from two cart items) appear once, at the position of
// their first occurrence; warnings that differ in text (say, different
// measured sugar values) are all retained. An empty product list, or a
// pass that produces no warnings, yields an empty slice.
func (e *Evaluator) Aggregate(products []Product, profile Profile) []string {
	seen := make(map[string]struct{})
	var messages []string
	for _, product := range products {
		for _, w := range e.Evaluate(product, profile) {
			if _, dup := seen[w.Message]; dup {
				continue
			}
			seen[w.Message] = struct{}{}
			messages = append(messages, w.Message)
		}
	}
	return messages
}
