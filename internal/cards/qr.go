package cards

import (
	"encoding/json"
	"fmt"
	"image"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"parishevents/internal/domain"
)

// EncodeQR serializes the scan payload to JSON and renders it as a QR image
// of size x size pixels.
func EncodeQR(payload domain.ScanPayload, size int) (image.Image, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal qr payload: %w", err)
	}
	qr, err := qrcode.New(string(raw), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return qr.Image(size), nil
}

// EncodeQRPNG is EncodeQR but returns the PNG bytes directly.
func EncodeQRPNG(payload domain.ScanPayload, size int) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal qr payload: %w", err)
	}
	png, err := qrcode.Encode(string(raw), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// ParseScanPayload decodes a scanned QR payload. It accepts either the JSON
// object form {"id":...,"name":...,"event":...} or a bare registrant
// identifier string. Returns ErrInvalidInput when no identifier is present.
func ParseScanPayload(raw string) (domain.ScanPayload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.ScanPayload{}, domain.ErrInvalidInput
	}
	if strings.HasPrefix(raw, "{") {
		var p domain.ScanPayload
		if err := json.Unmarshal([]byte(raw), &p); err == nil && p.ID != "" {
			return p, nil
		}
		return domain.ScanPayload{}, domain.ErrInvalidInput
	}
	return domain.ScanPayload{ID: raw}, nil
}
