package entity

import "time"

// ReceiptImage is a receipt normalised for embedding in a document
type ReceiptImage struct {
	FileName     string    `json:"file_name"`
	SourceType   string    `json:"source_type"`
	ContentType  string    `json:"content_type"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Data         []byte    `json:"-"`
	AttachedAt   time.Time `json:"attached_at"`
	OriginalSize int       `json:"original_size"`
}
