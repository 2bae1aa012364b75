// Package outpath derives the output file of a conversion: the input's base
// name with the target extension, suffixed with _<unix-millis> when a file of
// that name already exists.
package outpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Derive returns the output path for input with the extension ext.
func Derive(input, ext string) string {
	return DeriveAt(input, ext, time.Now())
}

// DeriveAt is Derive with a fixed clock.
func DeriveAt(input, ext string, now time.Time) string {
	base := Plain(input, ext)
	if _, err := os.Stat(base); err != nil {
		return base
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_%d%s", stem, now.UnixMilli(), filepath.Ext(base))
}

// Plain returns input with its extension replaced by ext, without checking
// for an existing file.
func Plain(input, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

// Timestamped returns name_<unix-millis>ext in dir.
func Timestamped(dir, name, ext string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, now.UnixMilli(), ext))
}
