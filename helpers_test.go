package stegcodec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"
)

// testConfig keeps PBKDF2 cheap so the suite stays fast
func testConfig() *Config {
	config := DefaultConfig()
	config.KDF.Iterations = 1000
	return config
}

func newTestCodec(t testing.TB) *Codec {
	t.Helper()

	codec, err := New(testConfig())
	if err != nil {
		t.Fatalf("failed to create codec: %v", err)
	}
	return codec
}

// makePNG returns a w x h PNG with pseudo-random opaque pixels
func makePNG(t testing.TB, w, h int, seed int64) []byte {
	t.Helper()

	r := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xFF
	}
	return encodeTestImage(t, img)
}

// makeSolidPNG returns a w x h PNG filled with one colour
func makeSolidPNG(t testing.TB, w, h int, c color.NRGBA) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return encodeTestImage(t, img)
}

func encodeTestImage(t testing.TB, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

type wavChunk struct {
	id   string
	body []byte
}

// makeWAV builds a RIFF/WAVE file: the given leading chunks, a PCM fmt
// chunk, then a data chunk of dataSize bytes filled with fill (or random
// bytes when fill is negative).
func makeWAV(dataSize int, fill int, leading ...wavChunk) []byte {
	fmtBody := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtBody[0:], 1)    // PCM
	binary.LittleEndian.PutUint16(fmtBody[2:], 1)    // mono
	binary.LittleEndian.PutUint32(fmtBody[4:], 8000) // sample rate
	binary.LittleEndian.PutUint32(fmtBody[8:], 8000) // byte rate
	binary.LittleEndian.PutUint16(fmtBody[12:], 1)   // block align
	binary.LittleEndian.PutUint16(fmtBody[14:], 8)   // bits per sample

	data := make([]byte, dataSize)
	if fill < 0 {
		rand.New(rand.NewSource(int64(dataSize))).Read(data)
	} else {
		for i := range data {
			data[i] = byte(fill)
		}
	}

	chunks := append(leading, wavChunk{"fmt ", fmtBody}, wavChunk{"data", data})

	var body bytes.Buffer
	body.WriteString("WAVE")
	for _, c := range chunks {
		body.WriteString(c.id)
		binary.Write(&body, binary.LittleEndian, uint32(len(c.body)))
		body.Write(c.body)
		if len(c.body)%2 == 1 && c.id != "data" {
			body.WriteByte(0)
		}
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// makePDF assembles a one-page PDF with a correct cross-reference table.
// info, when non-empty, becomes the document information dictionary.
func makePDF(info string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>",
	}
	if info != "" {
		objects = append(objects, info)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	trailer := fmt.Sprintf("<< /Size %d /Root 1 0 R", len(objects)+1)
	if info != "" {
		trailer += fmt.Sprintf(" /Info %d 0 R", len(objects))
	}
	trailer += " >>"
	fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	return buf.Bytes()
}

// fixedReader yields a repeating byte pattern; it never runs dry.
type fixedReader struct {
	next byte
}

func (r *fixedReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}
