package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/centsible/centsible-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth  = 50
	MinReceiptHeight = 50
	ThumbnailWidth   = 200
	DisplayWidth     = 800
	JPEGQuality      = 85

	// PresignExpiry bounds how long a receipt link stays valid
	PresignExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge          = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat     = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall          = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidReceiptData       = errors.New("invalid image data")
	ErrReceiptStorageNotEnabled = errors.New("receipt storage not configured")
	ErrNoReceipt                = errors.New("transaction has no receipt")
)

// AllowedReceiptExtensions maps extensions to content types
var AllowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptMetadata contains presigned URLs for the stored receipt variants
type ReceiptMetadata struct {
	ID           string `json:"id"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// ReceiptService processes receipt images and attaches them to transactions
type ReceiptService struct {
	storage      storage.ReceiptRepository
	transactions *TransactionService
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage storage.ReceiptRepository, transactions *TransactionService) *ReceiptService {
	return &ReceiptService{
		storage:      storage,
		transactions: transactions,
	}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedReceiptExtensions[ext]; !ok {
		return nil, ErrInvalidReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

// Upload validates the image, stores resized variants, and records the
// display variant's object path on the transaction. The caller must own the
// transaction.
func (s *ReceiptService) Upload(ctx context.Context, userID uuid.UUID, transactionID int32, data []byte, filename string) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotEnabled
	}

	// Ownership check happens before any processing work
	if _, err := s.transactions.Get(userID, transactionID); err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	receiptID := uuid.New().String()

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"display", DisplayWidth},
		{"original", 0}, // 0 means keep original size
	}

	paths := make(map[string]string)

	for _, variant := range variants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			// Resize maintaining aspect ratio
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := fmt.Sprintf("%s/receipts/%d/%s_%s.jpg", userID, transactionID, receiptID, variant.name)

		path, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			s.cleanupVariants(ctx, paths)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}

		paths[variant.name] = path
	}

	// Replacing a receipt orphans the previous objects; clean them up first
	if current, err := s.transactions.Get(userID, transactionID); err == nil && current.ReceiptURL != nil {
		s.deleteAllVariants(ctx, *current.ReceiptURL)
	}

	displayPath := paths["display"]
	if _, err := s.transactions.SetReceiptURL(userID, transactionID, &displayPath); err != nil {
		s.cleanupVariants(ctx, paths)
		return nil, err
	}

	metadata := &ReceiptMetadata{ID: receiptID}
	if metadata.ThumbnailURL, err = s.storage.GeneratePresignedURL(ctx, paths["thumb"], PresignExpiry); err != nil {
		return nil, err
	}
	if metadata.DisplayURL, err = s.storage.GeneratePresignedURL(ctx, paths["display"], PresignExpiry); err != nil {
		return nil, err
	}
	if metadata.OriginalURL, err = s.storage.GeneratePresignedURL(ctx, paths["original"], PresignExpiry); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Int32("transaction_id", transactionID).
		Msg("Receipt uploaded")
	return metadata, nil
}

// PresignedURL generates a temporary link to the stored display variant of a
// transaction's receipt
func (s *ReceiptService) PresignedURL(ctx context.Context, userID uuid.UUID, transactionID int32) (string, error) {
	if !s.IsEnabled() {
		return "", ErrReceiptStorageNotEnabled
	}

	transaction, err := s.transactions.Get(userID, transactionID)
	if err != nil {
		return "", err
	}
	if transaction.ReceiptURL == nil {
		return "", ErrNoReceipt
	}

	return s.storage.GeneratePresignedURL(ctx, *transaction.ReceiptURL, PresignExpiry)
}

// Delete removes a transaction's receipt objects and clears its receipt path
func (s *ReceiptService) Delete(ctx context.Context, userID uuid.UUID, transactionID int32) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageNotEnabled
	}

	transaction, err := s.transactions.Get(userID, transactionID)
	if err != nil {
		return err
	}
	if transaction.ReceiptURL == nil {
		return ErrNoReceipt
	}

	s.deleteAllVariants(ctx, *transaction.ReceiptURL)

	if _, err := s.transactions.SetReceiptURL(userID, transactionID, nil); err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Int32("transaction_id", transactionID).
		Msg("Receipt deleted")
	return nil
}

// cleanupVariants removes variants uploaded during a failed operation
func (s *ReceiptService) cleanupVariants(ctx context.Context, paths map[string]string) {
	for _, path := range paths {
		// Best effort; the upload already failed
		_ = s.storage.Delete(ctx, path)
	}
}

// deleteAllVariants deletes all variants given the stored display path
func (s *ReceiptService) deleteAllVariants(ctx context.Context, displayPath string) {
	basePath, ok := strings.CutSuffix(displayPath, "_display.jpg")
	if !ok {
		return
	}

	for _, variant := range []string{"thumb", "display", "original"} {
		if err := s.storage.Delete(ctx, basePath+"_"+variant+".jpg"); err != nil {
			log.Warn().Err(err).Str("path", basePath).Str("variant", variant).Msg("Failed to delete receipt variant")
		}
	}
}

// ReceiptContentType returns the content type for a receipt file extension
func ReceiptContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := AllowedReceiptExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
