package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorSapphire lipgloss.Color = "#74c7ec"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

// seriesColors colours chart series in declaration order.
var seriesColors = []lipgloss.Color{colorBlue, colorPeach, colorGreen, colorMauve, colorTeal, colorYellow, colorRed}

func seriesColor(i int) lipgloss.Color { return seriesColors[i%len(seriesColors)] }

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	subheader lipgloss.Style
	text      lipgloss.Style
	muted     lipgloss.Style
	label     lipgloss.Style
	control   lipgloss.Style
	focused   lipgloss.Style
	active    lipgloss.Style
	code      lipgloss.Style
	form      lipgloss.Style
	sidebar   lipgloss.Style
	statusBar lipgloss.Style
	errorText lipgloss.Style
	modal     lipgloss.Style
	alerts    map[string]lipgloss.Style
}

func newStyles() styles {
	alert := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().
			Foreground(c).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(c).
			PaddingLeft(1)
	}
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(colorBrand),
		header:    lipgloss.NewStyle().Bold(true).Foreground(colorMauve),
		subheader: lipgloss.NewStyle().Bold(true).Foreground(colorLavender),
		text:      lipgloss.NewStyle().Foreground(colorText),
		muted:     lipgloss.NewStyle().Foreground(colorOverlay1),
		label:     lipgloss.NewStyle().Foreground(colorSubtext0),
		control:   lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0),
		focused:   lipgloss.NewStyle().Foreground(colorBase).Background(colorFocus).Bold(true),
		active:    lipgloss.NewStyle().Foreground(colorBrand).Bold(true),
		code: lipgloss.NewStyle().
			Foreground(colorPeach).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface2).
			Padding(0, 1),
		form: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1),
		sidebar: lipgloss.NewStyle().
			Background(colorMantle).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(colorSurface1).
			Padding(0, 1),
		statusBar: lipgloss.NewStyle().Foreground(colorOverlay1),
		errorText: lipgloss.NewStyle().Foreground(colorError),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFocus).
			Background(colorBase).
			Padding(0, 1),
		alerts: map[string]lipgloss.Style{
			"info":    alert(colorInfo),
			"success": alert(colorSuccess),
			"warning": alert(colorWarning),
			"error":   alert(colorError),
		},
	}
}
