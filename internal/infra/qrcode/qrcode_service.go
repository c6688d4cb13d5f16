// Package qrcode renders the machine-readable reference embedded in receipts.
package qrcode

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/skip2/go-qrcode"

	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

type qrcodeService struct {
	size int
}

// ReceiptQRData is the payload encoded into the receipt QR code.
type ReceiptQRData struct {
	TransactionID string    `json:"transaction_id"`
	Total         float64   `json:"total"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewQRCodeService creates a QR code service rendering PNGs of the given size.
func NewQRCodeService(size int) service.QRCodeService {
	if size <= 0 {
		size = 256
	}

	return &qrcodeService{size: size}
}

// GenerateReceiptQR encodes the transaction reference for receipt scanning.
func (s *qrcodeService) GenerateReceiptQR(tx *entity.Transaction) ([]byte, error) {
	data := ReceiptQRData{
		TransactionID: tx.ID,
		Total:         tx.Total,
		Timestamp:     tx.Timestamp,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	code, err := qrcode.New(string(jsonData), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := code.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}
