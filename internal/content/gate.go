package content

// Complete keeps the items that have a poster and a positive rating, in their
// original order. The input slice is not modified.
func Complete(items []ContentItem) []ContentItem {
	out := make([]ContentItem, 0, len(items))
	for _, item := range items {
		if IsComplete(item) {
			out = append(out, item)
		}
	}
	return out
}

// IsComplete is the per-item completeness rule
func IsComplete(item ContentItem) bool {
	return item.PosterURL != nil && item.Rating != nil && *item.Rating > 0
}
