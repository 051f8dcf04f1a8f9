package jpegquality

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"strconv"
	"testing"
)

// createTestJPEG creates a gradient JPEG image with specified quality
func createTestJPEG(t testing.TB, width, height, quality int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{uint8(x * 255 / width), uint8(y * 255 / height), uint8((x + y) * 255 / (width + height)), 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("failed to encode JPEG: %v", err)
	}
	return buf.Bytes()
}

func TestQuality(t *testing.T) {
	for _, q := range []int{25, 30, 50, 70, 85, 95, 100} {
		t.Run(strconv.Itoa(q), func(t *testing.T) {
			qr, err := NewWithBytes(createTestJPEG(t, 64, 48, q))
			if err != nil {
				t.Fatalf("NewWithBytes() error = %v", err)
			}
			// encoder rounds table values, estimate is never exact
			if got := qr.Quality(); got < q-2 || got > q+2 {
				t.Errorf("Quality() = %d, want %d +/- 2", got, q)
			}
		})
	}
}

func TestQuality_DifferentImageSizes(t *testing.T) {
	want := -1
	for _, size := range []image.Point{{8, 8}, {100, 100}, {300, 200}} {
		qr, err := NewWithBytes(createTestJPEG(t, size.X, size.Y, 85))
		if err != nil {
			t.Fatalf("NewWithBytes() for %v error = %v", size, err)
		}
		if want < 0 {
			want = qr.Quality()
		}
		if got := qr.Quality(); got != want {
			t.Errorf("quality for %v = %d, want %d", size, got, want)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"not jpeg", []byte("not a jpeg image"), ErrInvalidJPEG},
		{"empty", nil, ErrInvalidJPEG},
		{"incomplete", []byte{0xff, 0xd8, 0xff}, io.ErrUnexpectedEOF},
		{"no tables", []byte{0xff, 0xd8, 0xff, 0xd9}, ErrNoDQT},
		{"short segment", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x01}, ErrShortSegment},
		{"truncated table", []byte{0xff, 0xd8, 0xff, 0xdb, 0x00, 0x43, 0x00, 0x01, 0x02}, ErrShortDQT},
		{"bad precision", append([]byte{0xff, 0xd8, 0xff, 0xdb, 0x00, 0x43, 0x20}, make([]byte, 64)...), ErrWrongTable},
		{"short table", append([]byte{0xff, 0xd8, 0xff, 0xdb, 0x00, 0x22, 0x00}, make([]byte, 31)...), ErrShortDQT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewWithBytes(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("NewWithBytes() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNew_SkipsOtherSegments(t *testing.T) {
	table := make([]byte, 64)
	for i := range table {
		table[i] = 1
	}
	data := []byte{0xff, 0xd8}
	// APP0 with 3 bytes of payload
	data = append(data, 0xff, 0xe0, 0x00, 0x05, 'J', 'F', 'I')
	// restart marker has no length
	data = append(data, 0xff, 0xd0)
	data = append(data, 0xff, 0xdb, 0x00, 0x43, 0x01)
	data = append(data, table...)

	qr, err := NewWithBytes(data)
	if err != nil {
		t.Fatalf("NewWithBytes() error = %v", err)
	}
	// only chrominance table, all ones
	if got := qr.Quality(); got < 99 {
		t.Errorf("Quality() = %d, want at least 99", got)
	}
}

func TestNew_RereadsFromStart(t *testing.T) {
	reader := bytes.NewReader(createTestJPEG(t, 50, 50, 60))

	qr1, err := New(reader)
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	qr2, err := New(reader)
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if qr1.Quality() != qr2.Quality() {
		t.Errorf("quality mismatch: first=%d, second=%d", qr1.Quality(), qr2.Quality())
	}
}

func TestReadMarker(t *testing.T) {
	jr := &jpegReader{rs: bytes.NewReader(createTestJPEG(t, 16, 16, 85))}
	if m := jr.readMarker(); m != markerSOI {
		t.Errorf("expected SOI marker, got 0x%x", m)
	}
	if m := jr.readMarker(); m == 0 {
		t.Error("expected valid marker, got 0")
	}

	jr = &jpegReader{rs: bytes.NewReader([]byte{0x00, 0xd8})}
	if m := jr.readMarker(); m != 0 {
		t.Errorf("expected no marker, got 0x%x", m)
	}
}

func BenchmarkQualityDetection(b *testing.B) {
	data := createTestJPEG(b, 1000, 1000, 85)
	for b.Loop() {
		qr, err := NewWithBytes(data)
		if err != nil {
			b.Fatalf("NewWithBytes failed: %v", err)
		}
		_ = qr.Quality()
	}
}
