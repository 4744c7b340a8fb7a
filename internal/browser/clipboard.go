package browser

import "github.com/atotto/clipboard"

var clipboardWriteAll = clipboard.WriteAll

// Clipboard writes plain text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard uses the clipboard of the machine the server runs on.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	return clipboardWriteAll(text)
}
