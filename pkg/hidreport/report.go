// SPDX-License-Identifier: BSD-3-Clause

package hidreport

// ReportKind tags the variant of a Report.
type ReportKind uint8

const (
	ReportKeyboard ReportKind = iota
	ReportMouse
	ReportMedia
	ReportSystem
)

// KeyboardReport is a boot-compatible 6-key-rollover keyboard report:
// one modifier byte, a reserved byte, and six keycode slots.
type KeyboardReport struct {
	Modifier byte
	Reserved byte
	Keys     [6]byte
}

// MouseReport is a relative-motion mouse report: buttons plus X/Y deltas
// and wheel/pan deltas, each a signed byte per USB HID mouse convention.
type MouseReport struct {
	Buttons byte
	X       int8
	Y       int8
	Wheel   int8
	Pan     int8
}

// MediaKeyboardReport is a consumer-control (media key) report: a single
// 16-bit usage ID, zero meaning "no key".
type MediaKeyboardReport struct {
	UsageID uint16
}

// SystemControlReport is a generic-desktop system-control report (sleep,
// wake, power): a single 8-bit usage ID.
type SystemControlReport struct {
	UsageID uint8
}

// Report is the sum type the keyboard engine hands to a Writer. Exactly one
// of the embedded fields is meaningful, selected by Kind.
type Report struct {
	Kind     ReportKind
	Keyboard KeyboardReport
	Mouse    MouseReport
	Media    MediaKeyboardReport
	System   SystemControlReport
}

// NewKeyboardReport wraps a KeyboardReport as a Report.
func NewKeyboardReport(r KeyboardReport) Report { return Report{Kind: ReportKeyboard, Keyboard: r} }

// NewMouseReport wraps a MouseReport as a Report.
func NewMouseReport(r MouseReport) Report { return Report{Kind: ReportMouse, Mouse: r} }

// NewMediaReport wraps a MediaKeyboardReport as a Report.
func NewMediaReport(r MediaKeyboardReport) Report { return Report{Kind: ReportMedia, Media: r} }

// NewSystemReport wraps a SystemControlReport as a Report.
func NewSystemReport(r SystemControlReport) Report { return Report{Kind: ReportSystem, System: r} }

// IsEmpty reports whether this is a keyboard report with no modifiers and no
// keys held — the canonical "all released" report used to test press/
// release symmetry.
func (r Report) IsEmpty() bool {
	switch r.Kind {
	case ReportKeyboard:
		if r.Keyboard.Modifier != 0 {
			return false
		}
		for _, k := range r.Keyboard.Keys {
			if k != 0 {
				return false
			}
		}
		return true
	case ReportMouse:
		return r.Mouse == MouseReport{}
	case ReportMedia:
		return r.Media.UsageID == 0
	case ReportSystem:
		return r.System.UsageID == 0
	default:
		return true
	}
}
