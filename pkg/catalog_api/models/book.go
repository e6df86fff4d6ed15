package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Book is the catalog entity. A book owns at most one QRCodeArtifact.
type Book struct {
	ID              uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string          `json:"title" gorm:"not null"`
	Author          string          `json:"author" gorm:"not null"`
	Isbn            *string         `json:"isbn,omitempty" gorm:"uniqueIndex;size:20"`
	Description     string          `json:"description,omitempty"`
	PublicationDate *time.Time      `json:"publicationDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	QRCode          *QRCodeArtifact `json:"qrcode,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
}

// QRCodeArtifact is the stored QR image for a book. The payload is a
// derived view of the owning book id and must always equal Payload(BookID).
type QRCodeArtifact struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	BookID    uint      `json:"bookId" gorm:"uniqueIndex;not null"`
	Payload   string    `json:"payload" gorm:"not null"`
	Image     []byte    `json:"-"`
	Format    string    `json:"format"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	ByteSize  int       `json:"byteSize"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"createdAt"`
}

// Payload builds the QR payload for a book id.
func Payload(bookID uint) string {
	return fmt.Sprintf("book:%d", bookID)
}

// ParsePayload extracts the book id from a "book:<id>" payload.
func ParsePayload(payload string) (uint, error) {
	rest, ok := strings.CutPrefix(payload, "book:")
	if !ok {
		return 0, fmt.Errorf("payload %q does not start with \"book:\"", payload)
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("payload %q carries a non-numeric book id", payload)
	}
	return uint(id), nil
}

// ArtifactFilename returns the blob name a stored QR image is served under.
func ArtifactFilename(bookID uint, format string) string {
	ext := strings.ToLower(format)
	if ext == "" {
		ext = "png"
	}
	if ext == "jpg" {
		ext = "jpeg"
	}
	return fmt.Sprintf("qrcode_%d.%s", bookID, ext)
}
