package models

import "time"

// FileInfo describes one stored file. The filesystem attributes are the
// metadata; there is no separate database record per file.
type FileInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}
