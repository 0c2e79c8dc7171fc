package util

import "fmt"

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

// Format size in bytes to human readable format, e.g. "1.50 KB".
// Negative sizes (unknown lengths) are printed as "?".
func FormatBytesSize(size int64) string {
	if size < 0 {
		return "?"
	}
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}

	value := float64(size) / 1024
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	return fmt.Sprintf("%.2f %s", value, sizeUnits[unit])
}
