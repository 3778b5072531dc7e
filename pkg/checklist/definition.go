package checklist

// HouseDefinition is the on-disk shape of the house-level checklist
// definition file: a set of items that apply to every house, plus
// additional items keyed by detected house type.
type HouseDefinition struct {
	Default    TypeItems            `json:"default" yaml:"default"`
	HouseTypes map[string]TypeItems `json:"house_types" yaml:"house_types"`
}

// RoomDefinition is the on-disk shape of the room-level checklist
// definition file: default items plus additions keyed by detected room
// type.
type RoomDefinition struct {
	Default   TypeItems            `json:"default" yaml:"default"`
	RoomTypes map[string]TypeItems `json:"room_types" yaml:"room_types"`
}

// ProductDefinition is the on-disk shape of the product inventory
// checklist. The original server reads "items" directly when present,
// falling back to "default.items" for symmetry with the other two
// definition files.
type ProductDefinition struct {
	Items   []Item     `json:"items,omitempty" yaml:"items,omitempty"`
	Default *TypeItems `json:"default,omitempty" yaml:"default,omitempty"`
}

// TypeItems is a named bucket of items (used for both "default" and each
// type-specific entry).
type TypeItems struct {
	Items []Item `json:"items" yaml:"items"`
}

// CustomChecklist holds a household's custom requirements layered on top
// of the base definitions. All fields are optional.
type CustomChecklist struct {
	Global       []Item               `json:"global,omitempty" yaml:"global,omitempty"`
	HouseLevel   []Item               `json:"house_level,omitempty" yaml:"house_level,omitempty"`
	RoomLevel    []RoomCustomItems    `json:"room_level,omitempty" yaml:"room_level,omitempty"`
	ProductLevel []ProductCustomItems `json:"product_level,omitempty" yaml:"product_level,omitempty"`
}

// RoomCustomItems scopes a set of custom items to a single room, by the
// room's own identifier (not its detected type). ProductItems is a
// second, separately-scoped list: items appended only to that room's
// product inventory evaluation, not its issue checklist.
type RoomCustomItems struct {
	RoomID       string `json:"room_id" yaml:"room_id"`
	CustomItems  []Item `json:"custom_items" yaml:"custom_items"`
	ProductItems []Item `json:"product_items,omitempty" yaml:"product_items,omitempty"`
}

// ProductCustomItems scopes a set of custom items to a single product
// category. Each custom item's ID is namespaced as "{product_id}__{id}"
// during merge so it can't collide with another product's item of the
// same local id.
type ProductCustomItems struct {
	ProductID   string `json:"product_id" yaml:"product_id"`
	CustomItems []Item `json:"custom_items" yaml:"custom_items"`
}
