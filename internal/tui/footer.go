package tui

// renderFooter renders the key hint line at full terminal width.
func renderFooter(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	text := "? for help  a: recommendations"
	if app.showHelp {
		text = helpText
	}
	return StyleDim.Width(width).MaxWidth(width).Render(text)
}
