package altofs

import "testing"

func TestAltoToUnix(t *testing.T) {
	t.Parallel()

	// altoEpochOffset itself is the Unix time of Alto time 0.
	if got := AltoToUnix(0); got != altoEpochOffset {
		t.Errorf("AltoToUnix(0) = %d, want %d", got, altoEpochOffset)
	}
}

func TestDecodeFileInfo(t *testing.T) {
	t.Parallel()

	ps := newTestStore(t)
	sn := SerialNumber{Word1: 1, Word2: 1}
	makeLeader(t, ps, 1, sn, 1, "Memo.txt")

	p, err := ps.Page(1)
	if err != nil {
		t.Fatalf("Page(1): %v", err)
	}

	putBE32 := func(off int, v uint32) {
		p.Data[off] = byte(v >> 24)
		p.Data[off+1] = byte(v >> 16)
		p.Data[off+2] = byte(v >> 8)
		p.Data[off+3] = byte(v)
	}
	putBE32(offCreated, 100)
	putBE32(offWritten, 200)
	putBE32(offRead, 300)
	p.Data[offPropBegin] = 7
	p.Data[offPropLength] = 3
	p.Data[offConsecutive] = 1
	p.Data[offChangeSerial] = 9

	putBE16 := func(off int, v uint16) {
		p.Data[off] = byte(v >> 8)
		p.Data[off+1] = byte(v)
	}
	putBE16(offDirHint, 0x8002)
	putBE16(offDirHint+2, 0x0003)
	putBE16(offDirHint+4, 5)
	putBE16(offDirHint+8, 2)

	putBE16(offLastPageHint, 9)
	putBE16(offLastPageHint+2, 4)
	putBE16(offLastPageHint+4, 77)

	info := DecodeFileInfo(p)
	if info.Name != "Memo.txt" {
		t.Errorf("Name = %q, want %q", info.Name, "Memo.txt")
	}
	if info.Created != 100 || info.Written != 200 || info.Read != 300 {
		t.Errorf("timestamps = %d/%d/%d, want 100/200/300", info.Created, info.Written, info.Read)
	}
	if info.PropertyBegin != 7 || info.PropertyLength != 3 || info.Consecutive != 1 || info.ChangeSerial != 9 {
		t.Errorf("flags = %+v", info)
	}
	if info.DirectoryHint.FileEntry.SerialNumber.Word1 != 0x8002 || info.DirectoryHint.FileEntry.SerialNumber.Word2 != 0x0003 {
		t.Errorf("DirectoryHint.FileEntry.SerialNumber = %+v", info.DirectoryHint.FileEntry.SerialNumber)
	}
	if info.DirectoryHint.FileEntry.Version != 5 || info.DirectoryHint.FileEntry.LeaderVDA != 2 {
		t.Errorf("DirectoryHint version/leader_vda = %d/%d, want 5/2", info.DirectoryHint.FileEntry.Version, info.DirectoryHint.FileEntry.LeaderVDA)
	}
	if info.LastPageHint.VDA != 9 || info.LastPageHint.PageNumber != 4 || info.LastPageHint.Pos != 77 {
		t.Errorf("LastPageHint = %+v", info.LastPageHint)
	}
}

func TestReadPascalString_TruncatesAtMax(t *testing.T) {
	t.Parallel()

	var data [64]byte
	data[0] = MaxFilenameChars + 5 // claims a longer name than allowed
	for i := 1; i < len(data); i++ {
		data[i] = 'z'
	}
	got := readPascalString(data[:], 0)
	if len(got) != MaxFilenameChars {
		t.Errorf("len(readPascalString) = %d, want %d", len(got), MaxFilenameChars)
	}
}
