package altofs

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// DefaultFs returns the production host filesystem implementation. Tests
// substitute afero.NewMemMapFs() so image load/save and extract/replace
// never need to touch the real disk.
func DefaultFs() afero.Fs {
	return afero.NewOsFs()
}

// LoadImage reads a flat Alto disk image from path on fs and reconstructs
// the page store described by geom. Every page record is
// (2 discard bytes, metaWords little-endian words, 512 byte-swapped data
// bytes); EOF must land exactly after the last page's record.
func LoadImage(fs afero.Fs, path string, geom Geometry) (*PageStore, error) {
	ps, err := NewPageStore(geom)
	if err != nil {
		return nil, err
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening image %q: %v", ErrIO, path, err)
	}
	defer f.Close()

	record := make([]byte, RecordSize)
	for vda := uint32(0); vda < ps.NumPages(); vda++ {
		if _, err := io.ReadFull(f, record); err != nil {
			return nil, fmt.Errorf("%w: reading page %d of %q: %v", ErrIO, vda, path, err)
		}
		decodePage(record, &ps.pages[vda])
	}

	trailing := make([]byte, 1)
	n, err := f.Read(trailing)
	if n > 0 {
		return nil, fmt.Errorf("%w: trailing data after last page in %q", ErrIO, path)
	}
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: checking for trailing data in %q: %v", ErrIO, path, err)
	}
	return ps, nil
}

// SaveImage serializes ps back to a flat image file at path on fs, in the
// same per-page record format LoadImage expects.
func SaveImage(fs afero.Fs, path string, ps *PageStore) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating image %q: %v", ErrIO, path, err)
	}
	defer f.Close()

	record := make([]byte, RecordSize)
	for vda := uint32(0); vda < ps.NumPages(); vda++ {
		encodePage(vda, &ps.pages[vda], record)
		if _, err := f.Write(record); err != nil {
			return fmt.Errorf("%w: writing page %d of %q: %v", ErrIO, vda, path, err)
		}
	}
	return nil
}

// encodePage serializes one page into dst, a RecordSize-length buffer.
func encodePage(vda uint32, p *Page, dst []byte) {
	dst[0] = byte(vda)
	dst[1] = byte(vda >> 8)

	meta := dst[recordDiscardBytes : recordDiscardBytes+metaWords*2]
	binary.LittleEndian.PutUint16(meta[0:2], uint16(vda))
	binary.LittleEndian.PutUint16(meta[2:4], p.Header.Word0)
	binary.LittleEndian.PutUint16(meta[4:6], p.Header.RDA)
	binary.LittleEndian.PutUint16(meta[6:8], p.Label.NextRDA)
	binary.LittleEndian.PutUint16(meta[8:10], p.Label.PrevRDA)
	binary.LittleEndian.PutUint16(meta[10:12], p.Label.NumBytes)
	binary.LittleEndian.PutUint16(meta[12:14], p.Label.FilePageNumber)
	binary.LittleEndian.PutUint16(meta[14:16], p.Label.Version)
	binary.LittleEndian.PutUint16(meta[16:18], p.Label.SerialNumber.Word1)
	binary.LittleEndian.PutUint16(meta[18:20], p.Label.SerialNumber.Word2)

	data := dst[recordDiscardBytes+metaWords*2:]
	for k := 0; k < PageDataSize; k++ {
		data[k^1] = p.Data[k]
	}
}

// decodePage deserializes one RecordSize-length record into p. The
// record's page_vda word is ignored: Page keeps no copy of it, since a
// page's VDA is its index in the store.
func decodePage(src []byte, p *Page) {
	meta := src[recordDiscardBytes : recordDiscardBytes+metaWords*2]
	p.Header.Word0 = binary.LittleEndian.Uint16(meta[2:4])
	p.Header.RDA = binary.LittleEndian.Uint16(meta[4:6])
	p.Label.NextRDA = binary.LittleEndian.Uint16(meta[6:8])
	p.Label.PrevRDA = binary.LittleEndian.Uint16(meta[8:10])
	p.Label.NumBytes = binary.LittleEndian.Uint16(meta[10:12])
	p.Label.FilePageNumber = binary.LittleEndian.Uint16(meta[12:14])
	p.Label.Version = binary.LittleEndian.Uint16(meta[14:16])
	p.Label.SerialNumber.Word1 = binary.LittleEndian.Uint16(meta[16:18])
	p.Label.SerialNumber.Word2 = binary.LittleEndian.Uint16(meta[18:20])

	data := src[recordDiscardBytes+metaWords*2:]
	for k := 0; k < PageDataSize; k++ {
		p.Data[k] = data[k^1]
	}
}
