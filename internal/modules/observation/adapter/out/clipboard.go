package out

import (
	"fmt"

	"github.com/atotto/clipboard"

	observationout "chronos/internal/modules/observation/port/out"
)

type SystemClipboard struct{}

func NewSystemClipboard() observationout.Clipboard {
	return SystemClipboard{}
}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}
