package ui

import (
	"errors"
	"strconv"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-clock/internal/config"
)

// maxPortDigits is the length of the largest TCP port number.
const maxPortDigits = 5

// PortEntry is an Entry that accepts up to five digits and validates the
// result as a TCP port. Messages are looked up through localize.
type PortEntry struct {
	widget.Entry
}

// NewPortEntry creates a PortEntry whose validation errors are translated
// with localize.
func NewPortEntry(localize func(key string) string) *PortEntry {
	entry := &PortEntry{}
	entry.ExtendBaseWidget(entry)
	entry.Validator = func(s string) error {
		if key := PortProblem(s); key != "" {
			return errors.New(localize(key))
		}
		return nil
	}
	return entry
}

// TypedRune drops non-digits and anything past the fifth digit.
// Pasted text bypasses this filter and is caught by the validator.
func (e *PortEntry) TypedRune(r rune) {
	if r < '0' || r > '9' || len(e.Text) >= maxPortDigits {
		return
	}
	e.Entry.TypedRune(r)
}

// Keyboard shows a numeric keypad on mobile devices.
func (e *PortEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

// PortProblem returns the translation key describing why s is not a valid
// port, or "" when it is.
func PortProblem(s string) string {
	if s == "" {
		return config.TKeyErrPortReq
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return config.TKeyErrPortNum
	}
	if port < config.MinPort || port > config.MaxPort {
		return config.TKeyErrPortRange
	}
	return ""
}
