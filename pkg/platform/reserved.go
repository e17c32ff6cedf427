// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// reservedNames are device names Windows reserves regardless of extension.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// IsWindowsReservedName reports whether name, ignoring case and anything
// after the first dot, is a reserved device name on Windows. A namespace
// segment with such a name cannot be stored as a file or directory there.
func IsWindowsReservedName(name string) bool {
	base, _, _ := strings.Cut(name, ".")
	_, ok := reservedNames[strings.ToUpper(base)]
	return ok
}
