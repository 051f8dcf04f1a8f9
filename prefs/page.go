package prefs

// Page is the part of a reading page controller works with. Every id based
// operation reports whether element was found, absent elements are not errors.
type Page interface {
	// SetRootFontSize sets inline font-size on page root.
	SetRootFontSize(value string)
	HasRootClass(name string) bool
	SetRootClass(name string, on bool)
	// SetValue makes control show value, for selectors this selects
	// matching option.
	SetValue(id, value string) bool
	// ReverseChildren reverses order of list items under element.
	ReverseChildren(id string) bool
	SetVisible(id string, visible bool) bool
	// ScrollTo requests smooth scroll to vertical offset.
	ScrollTo(y int)
}
