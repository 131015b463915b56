package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// SmartCalcTheme is a dark theme matching the drawing canvas.
type SmartCalcTheme struct{}

var _ fyne.Theme = (*SmartCalcTheme)(nil)

func (t *SmartCalcTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x1E, G: 0x1E, B: 0x1E, A: 0xFF}
	case theme.ColorNameButton, theme.ColorNameInputBackground:
		return color.NRGBA{R: 0x2E, G: 0x2E, B: 0x2E, A: 0xFF}
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF} // slider fill
	case theme.ColorNameForeground:
		return color.White
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *SmartCalcTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *SmartCalcTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *SmartCalcTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText {
		return 15
	}
	return theme.DefaultTheme().Size(name)
}
