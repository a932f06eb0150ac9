package naming

import (
	"path/filepath"
	"time"

	"github.com/backmassage/vidmaker/internal/config"
)

// TimestampLayout is the YYYYMMDD_HHMMSS stamp embedded in final names.
const TimestampLayout = "20060102_150405"

// FinalPath returns <outputDir>/vidmaker_<timestamp>.mp4 for now.
//
//	vidmaker_20240102_030405.mp4
func FinalPath(outputDir string, now time.Time) string {
	return filepath.Join(outputDir, "vidmaker_"+now.Format(TimestampLayout)+".mp4")
}

// MergedPath returns the concatenation output inside workDir.
func MergedPath(workDir string) string {
	return filepath.Join(workDir, config.MergedName)
}

// WatermarkedPath returns the overlay output inside workDir.
func WatermarkedPath(workDir string) string {
	return filepath.Join(workDir, config.WatermarkedName)
}
