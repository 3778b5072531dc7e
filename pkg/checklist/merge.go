package checklist

import "fmt"

// MergeHouse combines the house-level base definition with type-specific
// additions for each detected house type, then layers the household's
// global and house-level custom items on top. Duplicate ids are resolved
// by Dedupe.
func MergeHouse(base HouseDefinition, houseTypes []string, custom *CustomChecklist) []Item {
	items := append([]Item{}, base.Default.Items...)

	for _, ht := range houseTypes {
		if typeItems, ok := base.HouseTypes[ht]; ok {
			items = append(items, typeItems.Items...)
		}
	}

	if custom != nil {
		items = append(items, custom.Global...)
		items = append(items, custom.HouseLevel...)
	}

	return Dedupe(items)
}

// MergeRoom combines the room-level base definition with type-specific
// additions for each detected room type, then layers the household's
// global custom items and any custom items scoped to this specific room
// (matched by RoomID, not by detected type) on top.
func MergeRoom(base RoomDefinition, roomTypes []string, roomID string, custom *CustomChecklist) []Item {
	items := append([]Item{}, base.Default.Items...)

	for _, rt := range roomTypes {
		if typeItems, ok := base.RoomTypes[rt]; ok {
			items = append(items, typeItems.Items...)
		}
	}

	if custom != nil {
		items = append(items, custom.Global...)
		for _, entry := range custom.RoomLevel {
			if entry.RoomID == roomID {
				items = append(items, entry.CustomItems...)
			}
		}
	}

	return Dedupe(items)
}

// MergeProducts combines the product inventory base definition with an
// optional whitelist filter and the household's product-level custom
// items. Custom item ids are namespaced by their product id so two
// products can each define a local item named, say, "condition" without
// colliding. roomID additionally pulls in any items scoped to that
// specific room via custom.RoomLevel[*].ProductItems — a second,
// room-keyed path alongside the product_id-keyed ProductLevel items,
// used unnamespaced (one room's product_items don't need to disambiguate
// against another room's, since each room's products are evaluated
// separately). Pass an empty roomID when merging a whitelist shared
// across rooms rather than for one room's evaluation.
func MergeProducts(base ProductDefinition, productWhitelist []string, roomID string, custom *CustomChecklist) []Item {
	var items []Item
	switch {
	case base.Items != nil:
		items = append([]Item{}, base.Items...)
	case base.Default != nil:
		items = append([]Item{}, base.Default.Items...)
	}

	if len(productWhitelist) > 0 {
		allowed := make(map[string]bool, len(productWhitelist))
		for _, id := range productWhitelist {
			allowed[id] = true
		}
		filtered := items[:0:0]
		for _, item := range items {
			if allowed[item.ID] {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	if custom != nil {
		for _, entry := range custom.ProductLevel {
			for _, item := range entry.CustomItems {
				cloned := item
				cloned.ID = fmt.Sprintf("%s__%s", entry.ProductID, item.ID)
				items = append(items, cloned)
			}
		}

		if roomID != "" {
			for _, entry := range custom.RoomLevel {
				if entry.RoomID == roomID {
					items = append(items, entry.ProductItems...)
				}
			}
		}
	}

	return Dedupe(items)
}

// Dedupe removes items sharing an id, keeping the last occurrence of each
// id; the surviving items keep the relative order of their own positions.
// Items are walked in reverse so the last-seen id wins, then the kept set
// is reversed back to restore ascending order.
func Dedupe(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	deduped := make([]Item, 0, len(items))

	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if item.ID == "" || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		deduped = append(deduped, item)
	}

	for l, r := 0, len(deduped)-1; l < r; l, r = l+1, r-1 {
		deduped[l], deduped[r] = deduped[r], deduped[l]
	}

	return deduped
}
