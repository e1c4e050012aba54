package feed

import "github.com/samber/lo"

// Dedupe keeps the first item of every GUID, in order, and caps the result at max items.
func Dedupe(items []Item, max int) []Item {
	uniq := lo.UniqBy(items, func(item Item) string {
		return item.GUID
	})
	if max >= 0 && len(uniq) > max {
		uniq = uniq[:max]
	}
	return uniq
}
