// Package ui provides the PrintQuote application UI components.
//
// This file defines a custom compact Fyne theme for a dense counter-side layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PrintQuoteTheme wraps the default Fyne theme with compact sizing overrides
// so the staff workspace fits forms, breakdown and history on one screen.
type PrintQuoteTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewPrintQuoteTheme creates a new PrintQuoteTheme with the system default variant.
func NewPrintQuoteTheme() *PrintQuoteTheme {
	return &PrintQuoteTheme{
		base:    theme.DefaultTheme(),
		variant: 0, // system default
	}
}

// SetVariant updates the theme variant (light/dark/system).
func (t *PrintQuoteTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
}

// Color delegates to the base theme with the stored variant.
func (t *PrintQuoteTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *PrintQuoteTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *PrintQuoteTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns sizing tuned for the quoting forms: text a point larger so
// the Persian material labels stay legible, padding tight enough that the
// staff workspace fits the job form, breakdown and history on one screen.
func (t *PrintQuoteTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 5
	case theme.SizeNameInlineIcon:
		return 16
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameSeparatorThickness:
		return 1
	default:
		return t.base.Size(name)
	}
}
