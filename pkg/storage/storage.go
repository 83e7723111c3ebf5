package storage

import "time"

// DownloadRecord represents a single row from the downloads table.
type DownloadRecord struct {
	// Filename is the mirrored filename, unique per record.
	Filename string
	// PosterID is the poster index the file was downloaded for.
	PosterID int
	// Title is the poster title at download time.
	Title string
	// SourceURL is the raw URL the file was downloaded from.
	SourceURL string
	// SHA256 is the hash of the saved file.
	SHA256 string
	// Path is where the file was saved.
	Path string
	// DownloadedAt is when the download finished.
	DownloadedAt time.Time
}

// Storer defines the interface for download history operations.
// This allows for different database backends to be used with the client.
type Storer interface {
	// AddDownload inserts or replaces the record for rec.Filename.
	AddDownload(rec DownloadRecord) error
	// DownloadExists checks if a file has been downloaded before.
	DownloadExists(filename string) (bool, error)
	// GetDownload returns the record for filename, or nil if there is none.
	GetDownload(filename string) (*DownloadRecord, error)
	// ListDownloads returns all records, most recent first.
	ListDownloads() ([]DownloadRecord, error)
	// DeleteDownload removes the record for filename.
	DeleteDownload(filename string) error
	// Close closes the database connection.
	Close() error
}
