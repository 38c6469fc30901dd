package model

// LabelColor is one entry of the fixed label palette. The palette is static
// configuration, not part of the dynamic data model.
type LabelColor struct {
	ID   string
	Name string
	Hex  string
}

// Palette enumerates the label colors tasks may reference
var Palette = []LabelColor{
	{ID: "green", Name: "Green", Hex: "#22c55e"},
	{ID: "yellow", Name: "Yellow", Hex: "#eab308"},
	{ID: "red", Name: "Red", Hex: "#ef4444"},
	{ID: "blue", Name: "Blue", Hex: "#3b82f6"},
	{ID: "purple", Name: "Purple", Hex: "#a855f7"},
	{ID: "orange", Name: "Orange", Hex: "#f97316"},
	{ID: "gray", Name: "Gray", Hex: "#6b7280"},
	{ID: "pink", Name: "Pink", Hex: "#ec4899"},
}

// ValidLabel reports whether id names a palette color
func ValidLabel(id string) bool {
	for _, c := range Palette {
		if c.ID == id {
			return true
		}
	}
	return false
}
