package receipt

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEncoder_ResizesLargeImages(t *testing.T) {
	enc := NewEncoder(Config{MaxDimension: 400}, nil)
	data := pngBytes(t, 1200, 600, color.NRGBA{R: 200, A: 255})

	img, err := enc.Encode(context.Background(), "C:\\scans\\slip.png", data)
	require.NoError(t, err)

	assert.Equal(t, "slip.png", img.FileName)
	assert.Equal(t, "image/png", img.SourceType)
	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Equal(t, 400, img.Width)
	assert.Equal(t, 200, img.Height)
	assert.Equal(t, len(data), img.OriginalSize)
	assert.False(t, img.AttachedAt.IsZero())

	decoded, err := jpeg.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
}

func TestEncoder_KeepsSmallImages(t *testing.T) {
	enc := NewEncoder(Config{}, nil)
	img, err := enc.Encode(context.Background(), "small.png", pngBytes(t, 30, 20, color.White))
	require.NoError(t, err)
	assert.Equal(t, 30, img.Width)
	assert.Equal(t, 20, img.Height)
}

func TestEncoder_TransparentBecomesWhite(t *testing.T) {
	enc := NewEncoder(Config{}, nil)
	img, err := enc.Encode(context.Background(), "clear.png", pngBytes(t, 8, 8, color.NRGBA{}))
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	r, g, b, _ := decoded.At(4, 4).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestEncoder_Rejects(t *testing.T) {
	enc := NewEncoder(Config{MaxBytes: 1024}, nil)
	ctx := context.Background()

	_, err := enc.Encode(ctx, "notes.txt", []byte("just some text"))
	assert.ErrorIs(t, err, entity.ErrNotAnImage)

	_, err = enc.Encode(ctx, "empty.png", nil)
	assert.ErrorIs(t, err, entity.ErrNotAnImage)

	_, err = enc.Encode(ctx, "huge.png", make([]byte, 2048))
	assert.ErrorIs(t, err, entity.ErrReceiptTooLarge)

	// PNG signature followed by garbage
	broken := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	_, err = enc.Encode(ctx, "broken.png", broken)
	assert.ErrorIs(t, err, entity.ErrNotAnImage)
}

func pdfBytes(t *testing.T) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 14)
	pdf.Cell(40, 10, "Taxi receipt 120 THB")
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestEncoder_PDF(t *testing.T) {
	data := pdfBytes(t)

	_, err := NewEncoder(Config{}, nil).Encode(context.Background(), "receipt.pdf", data)
	assert.ErrorIs(t, err, entity.ErrNotAnImage, "PDF receipts are opt-in")

	img, err := NewEncoder(Config{AllowPDF: true, MaxDimension: 500}, nil).Encode(context.Background(), "receipt.pdf", data)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", img.SourceType)
	assert.LessOrEqual(t, img.Width, 500)
	assert.LessOrEqual(t, img.Height, 500)
	assert.NotEmpty(t, img.Data)
}
