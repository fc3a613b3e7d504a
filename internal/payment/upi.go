package payment

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"jmlastro/internal/models"
)

const qrSize = 256

// UPIURI builds the upi://pay deep link scanned by UPI apps.
func UPIURI(payeeID, payeeName string, amount models.Money, currency, note string) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=%s&tn=%s",
		upiEscape(payeeID),
		upiEscape(payeeName),
		amount.String(),
		upiEscape(currency),
		upiEscape(note),
	)
}

func upiEscape(s string) string {
	s = url.QueryEscape(s)
	s = strings.ReplaceAll(s, "+", "%20")
	return strings.ReplaceAll(s, "%40", "@")
}

// QRCodePNG renders content as a PNG QR code.
func QRCodePNG(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
