package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/elodiecarel/reverie/internal/domain"
)

// Fixed share-card canvas dimensions.
const (
	cardWidth  = 1200
	cardHeight = 630
)

const cardMargin = 90

var (
	cardBackground = color.RGBA{R: 0x18, G: 0x18, B: 0x1b, A: 0xff}
	cardForeground = color.RGBA{R: 0xe4, G: 0xe4, B: 0xe7, A: 0xff}
	cardDim        = color.RGBA{R: 0x71, G: 0x71, B: 0x7a, A: 0xff}
)

// Card renders a combination (and its score, when rated) onto a fixed
// canvas with wrapped text and a watermark, encoded as PNG.
func Card(text string, score int) ([]byte, error) {
	quote, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing quote font: %w", err)
	}
	plain, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing text font: %w", err)
	}

	quoteFace, err := opentype.NewFace(quote, &opentype.FaceOptions{Size: 48, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("building quote face: %w", err)
	}
	defer quoteFace.Close()
	smallFace, err := opentype.NewFace(plain, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("building small face: %w", err)
	}
	defer smallFace.Close()

	img := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	lines := wrap("« "+text+" »", quoteFace, cardWidth-2*cardMargin)

	lineHeight := quoteFace.Metrics().Height.Ceil() + 8
	blockHeight := len(lines) * lineHeight
	y := (cardHeight-blockHeight)/2 + quoteFace.Metrics().Ascent.Ceil()

	for _, line := range lines {
		drawString(img, quoteFace, cardForeground, cardMargin, y, line)
		y += lineHeight
	}

	if score >= domain.ScoreMin && score <= domain.ScoreMax {
		y += 16
		drawString(img, smallFace, cardDim, cardMargin, y, fmt.Sprintf("noté %d/10", score))
	}

	// Watermark, bottom right.
	mark := "réverie"
	markWidth := font.MeasureString(smallFace, mark).Ceil()
	drawString(img, smallFace, cardDim, cardWidth-cardMargin-markWidth, cardHeight-40, mark)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// wrap splits text into lines that fit maxWidth when drawn with face.
func wrap(text string, face font.Face, maxWidth int) []string {
	words := splitWords(text)
	var lines []string
	var line string

	for _, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if font.MeasureString(face, candidate).Ceil() > maxWidth && line != "" {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func splitWords(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

func drawString(img draw.Image, face font.Face, col color.Color, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
