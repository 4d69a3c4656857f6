// Package lean renders related entities as plain identifier arrays in JSON
// responses, so that a user serialises its roles as [1,3] rather than as
// nested objects.
package lean

import (
	"encoding/json"
	"sort"
)

// Identifiable is implemented by every persisted model
type Identifiable interface {
	GetID() uint
}

// IDList marshals as a JSON array of numbers. A nil list encodes as [] so
// clients never have to special-case null.
type IDList []uint

// MarshalJSON implements json.Marshaler
func (l IDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]uint(l))
}

// IDs maps a set of entities to their identifiers in ascending order.
// Duplicates are collapsed because the input models a set.
func IDs[T Identifiable](items []T) IDList {
	seen := make(map[uint]struct{}, len(items))
	ids := make(IDList, 0, len(items))
	for _, item := range items {
		id := item.GetID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ID returns the identifier of an optional single relation, or nil
func ID[T Identifiable](item *T) *uint {
	if item == nil {
		return nil
	}
	id := (*item).GetID()
	return &id
}
