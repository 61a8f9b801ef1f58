package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// moveToArchived moves a processed transcript so it won't be picked up again
func (p *implProcessor) moveToArchived(ctx context.Context, transcriptPath string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(transcriptPath))

	p.logger.Info(ctx, "Moving to archived folder: %s -> %s", transcriptPath, destPath)

	if err := os.Rename(transcriptPath, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}

	return nil
}

// inInputDir reports whether path sits directly in the watched input folder.
// Files given on the command line elsewhere are left in place.
func (p *implProcessor) inInputDir(path string) bool {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return false
	}
	input, err := filepath.Abs(p.cfg.Paths.Input)
	if err != nil {
		return false
	}
	return dir == input
}
