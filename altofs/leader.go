package altofs

import "encoding/binary"

// Fixed offsets within a leader page's 512-byte data area (spec section 4.7).
const (
	offCreated       = 0
	offWritten       = 4
	offRead          = 8
	offFilename      = 12
	offFilenameEnd   = 52
	offPropBegin     = 492
	offPropLength    = 493
	offConsecutive   = 494
	offChangeSerial  = 495
	offDirHint       = 496
	offLastPageHint  = 506
)

// readAltoTimestamp decodes a big-endian pair of words at data[off:off+4]
// into a 32-bit Alto epoch timestamp (high word first).
func readAltoTimestamp(data []byte, off int) uint32 {
	hi := binary.BigEndian.Uint16(data[off : off+2])
	lo := binary.BigEndian.Uint16(data[off+2 : off+4])
	return uint32(hi)<<16 | uint32(lo)
}

// AltoToUnix converts a 32-bit Alto epoch timestamp word to Unix seconds.
func AltoToUnix(altoTime uint32) int64 {
	return int64(int32(altoTime)) + altoEpochOffset
}

// readPascalString decodes a length-prefixed (Pascal-style) string at
// data[off], returning at most MaxFilenameChars bytes.
func readPascalString(data []byte, off int) string {
	n := int(data[off])
	if n > MaxFilenameChars {
		n = MaxFilenameChars
	}
	return string(data[off+1 : off+1+n])
}

// DecodeFileInfo extracts the leader metadata from a leader page's data
// area: name, timestamps, properties, hints, and flags.
func DecodeFileInfo(leader *Page) *FileInfo {
	data := leader.Data[:]
	info := &FileInfo{
		Name:           readPascalString(data, offFilename),
		Created:        readAltoTimestamp(data, offCreated),
		Written:        readAltoTimestamp(data, offWritten),
		Read:           readAltoTimestamp(data, offRead),
		PropertyBegin:  data[offPropBegin],
		PropertyLength: data[offPropLength],
		Consecutive:    data[offConsecutive],
		ChangeSerial:   data[offChangeSerial],
	}

	dh := data[offDirHint : offDirHint+10]
	info.DirectoryHint = DirectoryHint{FileEntry: FileEntry{
		SerialNumber: SerialNumber{
			Word1: binary.BigEndian.Uint16(dh[0:2]),
			Word2: binary.BigEndian.Uint16(dh[2:4]),
		},
		Version:   binary.BigEndian.Uint16(dh[4:6]),
		LeaderVDA: uint32(binary.BigEndian.Uint16(dh[8:10])),
	}}

	lp := data[offLastPageHint : offLastPageHint+6]
	info.LastPageHint = LastPageHint{
		VDA:        uint32(binary.BigEndian.Uint16(lp[0:2])),
		PageNumber: binary.BigEndian.Uint16(lp[2:4]),
		Pos:        binary.BigEndian.Uint16(lp[4:6]),
	}

	return info
}
