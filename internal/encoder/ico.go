package encoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
)

// maxICODimension is the largest size an ICO directory entry can describe.
const maxICODimension = 256

// ICOEncoder writes a single-image .ico file with a PNG payload, the form
// Windows accepts for tray and window icons since Vista.
type ICOEncoder struct {
	png *PNGEncoder
}

func NewICOEncoder() *ICOEncoder {
	return &ICOEncoder{png: NewPNGEncoder()}
}

type icoHeader struct {
	Reserved uint16
	Type     uint16 // 1 = icon
	Count    uint16
}

type icoDirEntry struct {
	Width      uint8 // 0 means 256
	Height     uint8
	Colors     uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	Offset     uint32
}

func (e *ICOEncoder) Encode(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 || b.Dx() > maxICODimension || b.Dy() > maxICODimension {
		return nil, fmt.Errorf("ico: unsupported size %dx%d", b.Dx(), b.Dy())
	}

	payload, err := e.png.Encode(img)
	if err != nil {
		return nil, fmt.Errorf("ico: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(6 + 16 + len(payload))

	hdr := icoHeader{Type: 1, Count: 1}
	entry := icoDirEntry{
		Width:      uint8(b.Dx() % maxICODimension),
		Height:     uint8(b.Dy() % maxICODimension),
		Planes:     1,
		BitCount:   32,
		BytesInRes: uint32(len(payload)),
		Offset:     6 + 16,
	}
	if err := binary.Write(&buf, binary.LittleEndian, hdr); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
		return nil, err
	}
	buf.Write(payload)
	return buf.Bytes(), nil
}
