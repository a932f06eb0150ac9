package display

import (
	"fmt"
	"math"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatSeconds renders a media duration: "8.0s", "1m 05.5s", "1h 02m 03s".
// Negative and NaN inputs render as "0.0s".
func FormatSeconds(sec float64) string {
	if math.IsNaN(sec) || sec < 0 {
		sec = 0
	}
	// Round first so 59.96 carries into the minute instead of printing 60.0s.
	sec = math.Round(sec*10) / 10
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	if sec < 3600 {
		m := int(sec) / 60
		return fmt.Sprintf("%dm %04.1fs", m, sec-float64(m*60))
	}
	total := int(math.Round(sec))
	return fmt.Sprintf("%dh %02dm %02ds", total/3600, (total%3600)/60, total%60)
}

// FormatResolution returns "WxH", or "unknown" when either side is unset.
func FormatResolution(width, height int) string {
	if width <= 0 || height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", width, height)
}
