// SPDX-License-Identifier: BSD-3-Clause

package hidreport

// Composite HID report descriptor: one collection per report class, each
// with its own numeric report ID so a single USB interface (or a single
// BLE HID service) can multiplex keyboard, mouse, media, and system-control
// reports. Report IDs match the ReportKind ordinal + 1 (0 is reserved).
const (
	ReportIDKeyboard byte = 1
	ReportIDMouse    byte = 2
	ReportIDMedia    byte = 3
	ReportIDSystem   byte = 4
)

// KeyboardReportDescriptor is the boot-compatible keyboard collection: one
// modifier byte, one reserved byte, six keycode slots.
var KeyboardReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x06, // Usage (Keyboard)
	0xA1, 0x01, // Collection (Application)
	0x85, ReportIDKeyboard, //   Report ID
	0x05, 0x07, //   Usage Page (Keyboard/Keypad)
	0x19, 0xE0, //   Usage Minimum (224)
	0x29, 0xE7, //   Usage Maximum (231)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size (1)
	0x95, 0x08, //   Report Count (8)
	0x81, 0x02, //   Input (Data, Variable, Absolute) -- modifier byte
	0x95, 0x01, //   Report Count (1)
	0x75, 0x08, //   Report Size (8)
	0x81, 0x01, //   Input (Constant) -- reserved byte
	0x95, 0x06, //   Report Count (6)
	0x75, 0x08, //   Report Size (8)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x65, //   Logical Maximum (101)
	0x05, 0x07, //   Usage Page (Keyboard/Keypad)
	0x19, 0x00, //   Usage Minimum (0)
	0x29, 0x65, //   Usage Maximum (101)
	0x81, 0x00, //   Input (Data, Array) -- six keycode slots
	0xC0, // End Collection
}

// MouseReportDescriptor is a relative-motion mouse collection.
var MouseReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x02, // Usage (Mouse)
	0xA1, 0x01, // Collection (Application)
	0x85, ReportIDMouse, //   Report ID
	0x09, 0x01, //   Usage (Pointer)
	0xA1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x01, //     Usage Minimum (Button 1)
	0x29, 0x05, //     Usage Maximum (Button 5)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x95, 0x05, //     Report Count (5)
	0x75, 0x01, //     Report Size (1)
	0x81, 0x02, //     Input (Data, Variable, Absolute) -- buttons
	0x95, 0x01, //     Report Count (1)
	0x75, 0x03, //     Report Size (3)
	0x81, 0x01, //     Input (Constant) -- button padding
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x09, 0x38, //     Usage (Wheel)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x03, //     Report Count (3)
	0x81, 0x06, //     Input (Data, Variable, Relative) -- X, Y, wheel
	0x05, 0x0C, //     Usage Page (Consumer)
	0x0A, 0x38, 0x02, //     Usage (AC Pan)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x01, //     Report Count (1)
	0x81, 0x06, //     Input (Data, Variable, Relative) -- pan
	0xC0, //   End Collection
	0xC0, // End Collection
}

// MediaReportDescriptor is the consumer-control collection used for media
// keys (play/pause, volume, track navigation).
var MediaReportDescriptor = []byte{
	0x05, 0x0C, // Usage Page (Consumer)
	0x09, 0x01, // Usage (Consumer Control)
	0xA1, 0x01, // Collection (Application)
	0x85, ReportIDMedia, //   Report ID
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xFF, 0x03, //   Logical Maximum (1023)
	0x19, 0x00, //   Usage Minimum (0)
	0x2A, 0xFF, 0x03, //   Usage Maximum (1023)
	0x75, 0x10, //   Report Size (16)
	0x95, 0x01, //   Report Count (1)
	0x81, 0x00, //   Input (Data, Array)
	0xC0, // End Collection
}

// SystemReportDescriptor is the generic-desktop system-control collection
// (sleep, wake, power-down).
var SystemReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x80, // Usage (System Control)
	0xA1, 0x01, // Collection (Application)
	0x85, ReportIDSystem, //   Report ID
	0x15, 0x01, //   Logical Minimum (1)
	0x25, 0x03, //   Logical Maximum (3)
	0x19, 0x81, //   Usage Minimum (System Power Down)
	0x29, 0x83, //   Usage Maximum (System Wake Up)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x01, //   Report Count (1)
	0x81, 0x00, //   Input (Data, Array)
	0xC0, // End Collection
}

// CompositeReportDescriptor concatenates every class's descriptor into the
// single descriptor a composite USB HID gadget or BLE HID service exposes.
func CompositeReportDescriptor() []byte {
	var d []byte
	d = append(d, KeyboardReportDescriptor...)
	d = append(d, MouseReportDescriptor...)
	d = append(d, MediaReportDescriptor...)
	d = append(d, SystemReportDescriptor...)
	return d
}

// Encode serializes r into the byte payload a transport writes to its
// endpoint or characteristic, prefixed with the report's numeric ID so a
// shared endpoint can demultiplex report classes on the host side.
func Encode(r Report) []byte {
	switch r.Kind {
	case ReportKeyboard:
		buf := make([]byte, 9)
		buf[0] = ReportIDKeyboard
		buf[1] = r.Keyboard.Modifier
		buf[2] = r.Keyboard.Reserved
		copy(buf[3:], r.Keyboard.Keys[:])
		return buf
	case ReportMouse:
		return []byte{ReportIDMouse, r.Mouse.Buttons, byte(r.Mouse.X), byte(r.Mouse.Y), byte(r.Mouse.Wheel), byte(r.Mouse.Pan)}
	case ReportMedia:
		return []byte{ReportIDMedia, byte(r.Media.UsageID), byte(r.Media.UsageID >> 8)}
	case ReportSystem:
		return []byte{ReportIDSystem, r.System.UsageID}
	default:
		return nil
	}
}
