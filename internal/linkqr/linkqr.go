// Package linkqr builds the Telegram deep link used to connect an account to
// the reminder bot and renders it as a QR code for the terminal.
package linkqr

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// DefaultBot is the reminder bot's username.
const DefaultBot = "reminder_training_bot"

// DeepLink returns the t.me link that opens bot with code as the /start payload.
func DeepLink(bot, code string) string {
	bot = strings.TrimPrefix(strings.TrimSpace(bot), "@")
	if bot == "" {
		bot = DefaultBot
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", bot, url.QueryEscape(code))
}

// Render encodes content as a QR code drawn with half-block characters, two
// modules per text row. A quiet zone of quiet modules surrounds the code.
func Render(content string, quiet int) (string, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return renderModules(code, quiet), nil
}

func renderModules(code barcode.Barcode, quiet int) string {
	if quiet < 0 {
		quiet = 0
	}
	b := code.Bounds()
	size := b.Dx() + 2*quiet
	dark := func(x, y int) bool {
		x -= quiet
		y -= quiet
		if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
			return false
		}
		r, _, _, _ := code.At(b.Min.X+x, b.Min.Y+y).RGBA()
		return r < 0x8000
	}

	var sb strings.Builder
	for y := 0; y < size; y += 2 {
		for x := 0; x < size; x++ {
			top, bottom := dark(x, y), dark(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		if y+2 < size {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
