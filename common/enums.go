// Package common keeps enumerations shared by configuration, reader
// preferences and site generation. Enum code is produced by go-enum.
package common

//go:generate go tool go-enum --names --marshal

// Reader font size tier.
// ENUM(small, medium, large)
type FontTier string

// Reader color theme. Dark is the unmarked state of the page.
// ENUM(light, dark)
type Theme string

// Device class derived from user agent and viewport, never persisted.
// ENUM(desktop, mobile)
type DeviceClass string

// Cover image resizing mode.
// ENUM(none, keepAR, stretch)
type ImageResizeMode int

// Toggle returns opposite theme. Anything which is not light is treated as
// dark, same as page rendering does.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
