package views

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// renderQR draws content as a QR code two modules per character cell using
// Unicode half blocks, each line prefixed with indent spaces.
func renderQR(content string, indent int) (string, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	bitmap := qr.Bitmap()

	pad := strings.Repeat(" ", indent)
	var sb strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		sb.WriteString(pad)
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bot := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String(), nil
}
