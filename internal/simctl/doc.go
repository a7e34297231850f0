// Package simctl drives simulators through `xcrun simctl`.
//
// Every backend call spawns one subprocess. Each command has a timeout; when
// it expires the process gets SIGTERM, then SIGKILL after a grace period.
// Operations simctl cannot express (HID input, watchdog overrides) return
// device.ErrUnsupported.
package simctl
