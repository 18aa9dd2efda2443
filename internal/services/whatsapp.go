package services

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"propertyagent/internal/utils"

	"github.com/skip2/go-qrcode"
)

const waBaseURL = "https://wa.me/"

// encodeURIComponent leaves these unescaped while url.QueryEscape does not.
var uriComponentFixer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriComponentFixer.Replace(url.QueryEscape(s))
}

// WhatsAppLink normalizes the phone and builds the wa.me deep link carrying
// the message as pre-filled text. It returns the link and the normalized digits.
func WhatsAppLink(phone, message string) (string, string, error) {
	digits := utils.NormalizePhone(phone)
	if digits == "" {
		return "", "", Validation(fmt.Sprintf("No valid phone number in %q", phone))
	}
	return waBaseURL + digits + "?text=" + encodeURIComponent(message), digits, nil
}

// QRCodeDataURI renders the link as a PNG QR code so the agent can open it on
// a phone.
func QRCodeDataURI(link string) (string, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("error generating QR code: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
