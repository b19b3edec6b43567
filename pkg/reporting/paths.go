package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Output file names inside a run directory
const (
	BestFileName        = "best.json"
	WorkbookFileName    = "generations.xlsx"
	CSVFileName         = "generations.csv"
	ConfigFileName      = "config.json"
	defaultOutputFolder = "results"
)

// PathManager lays out the output directory of each run
type PathManager struct {
	baseDir string
	now     func() time.Time
}

// NewPathManager creates a path manager rooted at baseDir
func NewPathManager(baseDir string) *PathManager {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = defaultOutputFolder
	}
	return &PathManager{baseDir: baseDir, now: time.Now}
}

// RunDir returns <base>/<yyyymmdd-hhmmss>_<run id prefix>
func (p *PathManager) RunDir(runID string) string {
	id := strings.TrimSpace(runID)
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		id = "run"
	}
	return filepath.Join(p.baseDir, fmt.Sprintf("%s_%s", p.now().Format("20060102-150405"), id))
}

// File returns the path of name inside the run directory
func (p *PathManager) File(runDir, name string) string {
	return filepath.Join(runDir, name)
}

// EnsureDirectoryExists creates dir and its parents
func (p *PathManager) EnsureDirectoryExists(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
