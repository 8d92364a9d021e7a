package zipclean

import "strings"

const invalidChars = `<>:"|?*`

var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// Sanitize makes a single path segment safe to create on any filesystem.
// Each of <>:"|?* becomes an underscore, and a segment naming a reserved
// device (CON, PRN, AUX, NUL, COM1-9, LPT1-9, any case) gets a "_safe" suffix.
func Sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return '_'
		}
		return r
	}, name)
	if _, ok := reservedNames[strings.ToUpper(name)]; ok {
		name += "_safe"
	}
	return name
}

// SanitizePath applies Sanitize to every "/"-separated segment of an
// archive path, keeping segment order and separators.
func SanitizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = Sanitize(part)
	}
	return strings.Join(parts, "/")
}
