// Package ui provides semantic text formatting for mspkeys output.
//
// Formatters render content by kind. With a color terminal the content is
// colorized; when NO_COLOR is set or the terminal cannot show colors,
// text decorations are used instead:
//
//	ui.Code.Sprint("mspkeys keys add")   // `mspkeys keys add`
//	ui.Path.Sprint(path)                 // path
//	ui.Identity.Sprint(npub)             // npub
//	ui.Highlight.Sprint("main")          // 'main'
//	ui.Muted.Sprint("no label")          // (no label)
//
// Identity ids are long; ShortID abbreviates them for tables.
package ui
