package director

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ProjectPath creates a timestamped project filename next to the image
func ProjectPath(imagePath string) string {
	dir := filepath.Dir(imagePath)
	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	base = strings.ReplaceAll(base, " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_tour_%s.yaml", base, timestamp))
}
