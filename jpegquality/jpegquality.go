// Package jpegquality estimates quality level a JPEG image was encoded with
// by comparing its quantization tables against standard IJG tables.
package jpegquality

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

var (
	ErrInvalidJPEG  = errors.New("invalid JPEG header")
	ErrWrongTable   = errors.New("wrong size for quantization table")
	ErrShortSegment = errors.New("short segment length")
	ErrShortDQT     = errors.New("section DQT is too short")
	ErrNoDQT        = errors.New("no quantization tables before image data")
)

const (
	markerSOI = 0xffd8
	markerEOI = 0xffd9
	markerSOS = 0xffda
	markerDQT = 0xffdb
)

// Standard tables from JPEG specification section K.1, sums are all that
// matters.
var (
	stdLuminance = [64]int{
		16, 11, 10, 16, 24, 40, 51, 61,
		12, 12, 14, 19, 26, 58, 60, 55,
		14, 13, 16, 24, 40, 57, 69, 56,
		14, 17, 22, 29, 51, 87, 80, 62,
		18, 22, 37, 56, 68, 109, 103, 77,
		24, 35, 55, 64, 81, 104, 113, 92,
		49, 64, 78, 87, 103, 121, 120, 101,
		72, 92, 95, 98, 112, 100, 103, 99,
	}
	stdChrominance = [64]int{
		17, 18, 24, 47, 99, 99, 99, 99,
		18, 21, 26, 66, 99, 99, 99, 99,
		24, 26, 56, 99, 99, 99, 99, 99,
		47, 66, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
	}
)

// QualityReader keeps quantization tables found in the image.
type QualityReader struct {
	tables map[int][64]int
}

type jpegReader struct {
	rs  io.ReadSeeker
	buf [2]byte
}

// readMarker returns 0 when there is no marker at current position.
func (jr *jpegReader) readMarker() uint16 {
	if _, err := io.ReadFull(jr.rs, jr.buf[:]); err != nil {
		return 0
	}
	if jr.buf[0] != 0xff {
		return 0
	}
	return binary.BigEndian.Uint16(jr.buf[:])
}

func (jr *jpegReader) readLength() (int, error) {
	if _, err := io.ReadFull(jr.rs, jr.buf[:]); err != nil {
		return 0, err
	}
	n := int(binary.BigEndian.Uint16(jr.buf[:]))
	if n < 2 {
		return 0, ErrShortSegment
	}
	return n - 2, nil
}

// New reads quantization tables from the beginning of rs. Reading stops at
// first table set, image data is never looked at.
func New(rs io.ReadSeeker) (*QualityReader, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	jr := &jpegReader{rs: rs}
	if jr.readMarker() != markerSOI {
		return nil, ErrInvalidJPEG
	}

	for {
		marker := jr.readMarker()
		switch {
		case marker == 0:
			return nil, io.ErrUnexpectedEOF
		case marker == markerEOI || marker == markerSOS:
			return nil, ErrNoDQT
		case marker >= 0xffd0 && marker <= 0xffd7, marker == 0xff01:
			// standalone markers
			continue
		}

		n, err := jr.readLength()
		if err != nil {
			return nil, err
		}
		if marker != markerDQT {
			if _, err := rs.Seek(int64(n), io.SeekCurrent); err != nil {
				return nil, err
			}
			continue
		}

		segment := make([]byte, n)
		if _, err := io.ReadFull(rs, segment); err != nil {
			return nil, ErrShortDQT
		}
		tables, err := parseDQT(segment)
		if err != nil {
			return nil, err
		}
		return &QualityReader{tables: tables}, nil
	}
}

func NewWithBytes(data []byte) (*QualityReader, error) {
	return New(bytes.NewReader(data))
}

func parseDQT(segment []byte) (map[int][64]int, error) {
	tables := make(map[int][64]int)
	for len(segment) > 0 {
		precision, id := int(segment[0]>>4), int(segment[0]&0x0f)
		if precision > 1 || id > 3 {
			return nil, ErrWrongTable
		}
		size := 64 * (precision + 1)
		if len(segment) < 1+size {
			return nil, ErrShortDQT
		}
		var t [64]int
		for i := range t {
			if precision == 0 {
				t[i] = int(segment[1+i])
			} else {
				t[i] = int(binary.BigEndian.Uint16(segment[1+2*i:]))
			}
		}
		tables[id] = t
		segment = segment[1+size:]
	}
	if len(tables) == 0 {
		return nil, ErrShortDQT
	}
	return tables, nil
}

// Quality returns estimated quality in 1-100 range, 0 when image has neither
// luminance nor chrominance table. Luminance table is preferred.
func (qr *QualityReader) Quality() int {
	if t, ok := qr.tables[0]; ok {
		return estimate(t, stdLuminance)
	}
	if t, ok := qr.tables[1]; ok {
		return estimate(t, stdChrominance)
	}
	return 0
}

// estimate reverses IJG scaling: scale = 5000/q for q < 50 and 200-2q
// otherwise.
func estimate(t, std [64]int) int {
	var sum, stdSum int
	for i := range t {
		sum += t[i]
		stdSum += std[i]
	}
	scale := float64(sum) * 100 / float64(stdSum)

	var q float64
	if scale <= 100 {
		q = (200 - scale) / 2
	} else {
		q = 5000 / scale
	}
	return min(max(int(q+0.5), 1), 100)
}
