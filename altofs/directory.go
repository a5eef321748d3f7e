package altofs

import (
	"encoding/binary"
	"fmt"
)

// maxDirEntryBytes bounds the per-entry buffer used while scanning: larger
// entries have their tail skipped rather than buffered.
const maxDirEntryBytes = 128

// validityBit is the bit position in a directory entry's first word that
// marks it as live (vs. a deleted/skipped slot).
const validityBit = 10
const entryLengthMask = 0x3FF

// DirScanFunc is invoked once per valid directory entry. A positive return
// continues scanning, zero stops cleanly, negative aborts with an error.
type DirScanFunc func(DirEntry) int

// ScanDirectory opens dir as a file (excluding its leader) and walks its
// stream of variable-length entries, invoking cb for every valid one.
func ScanDirectory(store *PageStore, dir FileEntry, cb DirScanFunc) error {
	cur, err := Open(store, dir, false)
	if err != nil {
		return err
	}

	for {
		var head [2]byte
		n, err := cur.Read(head[:], 2)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if n != 2 {
			return fmt.Errorf("%w: truncated directory entry header", ErrFormat)
		}

		word := binary.BigEndian.Uint16(head[:])
		valid := (word>>validityBit)&1 == 1
		lengthWords := int(word & entryLengthMask)
		if lengthWords == 0 {
			return fmt.Errorf("%w: zero-length directory entry", ErrFormat)
		}
		remaining := 2*lengthWords - 2

		bufLen := remaining
		if bufLen > maxDirEntryBytes-2 {
			bufLen = maxDirEntryBytes - 2
		}
		entry := make([]byte, 2+bufLen)
		copy(entry[0:2], head[:])

		if bufLen > 0 {
			got, err := cur.Read(entry[2:2+bufLen], bufLen)
			if err != nil {
				return err
			}
			if got != bufLen {
				return fmt.Errorf("%w: truncated directory entry body", ErrFormat)
			}
		}
		if skip := remaining - bufLen; skip > 0 {
			if _, err := cur.Read(nil, skip); err != nil {
				return err
			}
		}

		if !valid {
			continue
		}
		if len(entry) < 13 {
			return fmt.Errorf("%w: directory entry too short to decode", ErrFormat)
		}

		de := DirEntry{
			SerialNumber: SerialNumber{
				Word1: binary.BigEndian.Uint16(entry[2:4]),
				Word2: binary.BigEndian.Uint16(entry[4:6]),
			},
			Version:   binary.BigEndian.Uint16(entry[6:8]),
			LeaderVDA: uint32(binary.BigEndian.Uint16(entry[10:12])),
			Name:      readPascalString(entry, 12),
		}

		switch ret := cb(de); {
		case ret > 0:
			continue
		case ret == 0:
			return nil
		default:
			return fmt.Errorf("%w: directory scan aborted by callback", ErrFormat)
		}
	}
}

// prefixMatch reports whether entryName starts with query, byte for byte,
// over query's length. This preserves the original's strncmp-style
// lookup: a query shorter than the entry name still matches its prefix.
func prefixMatch(entryName, query string) bool {
	if len(query) > len(entryName) {
		return false
	}
	return entryName[:len(query)] == query
}

// RootFileEntry returns the file entry for the root directory, always the
// leader at VDA 1.
func RootFileEntry(store *PageStore) (FileEntry, error) {
	p, err := store.Page(1)
	if err != nil {
		return FileEntry{}, err
	}
	return FileEntry{SerialNumber: p.Label.SerialNumber, Version: p.Label.Version, LeaderVDA: 1}, nil
}

func lookupInDirectory(store *PageStore, dir FileEntry, name string) (FileEntry, error) {
	var result FileEntry
	found := false
	err := ScanDirectory(store, dir, func(de DirEntry) int {
		if prefixMatch(de.Name, name) {
			result = FileEntry{SerialNumber: de.SerialNumber, Version: de.Version, LeaderVDA: de.LeaderVDA}
			found = true
			return 0
		}
		return 1
	})
	if err != nil {
		return FileEntry{}, err
	}
	if !found {
		return FileEntry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return result, nil
}

// ResolvePath resolves a hierarchical Alto pathname against store, starting
// at the root directory (the leader at VDA 1). '<' resets the current
// directory to root; a name runs to the next '<', '>', or end of string;
// a name followed by '>' must resolve to a directory and causes descent;
// otherwise it is the final component and is returned.
func ResolvePath(store *PageStore, path string) (FileEntry, error) {
	root, err := RootFileEntry(store)
	if err != nil {
		return FileEntry{}, err
	}

	cur := root
	i := 0
	for i < len(path) {
		if path[i] == '<' {
			cur = root
			i++
			continue
		}

		start := i
		for i < len(path) && path[i] != '<' && path[i] != '>' {
			i++
		}
		name := path[start:i]
		if len(name) > MaxFilenameChars {
			return FileEntry{}, fmt.Errorf("%w: name %q exceeds %d bytes", ErrInvalidArgument, name, MaxFilenameChars)
		}

		found, err := lookupInDirectory(store, cur, name)
		if err != nil {
			return FileEntry{}, err
		}

		if i < len(path) && path[i] == '>' {
			if !found.SerialNumber.IsDirectory() {
				return FileEntry{}, fmt.Errorf("%w: %q is not a directory", ErrNotFound, name)
			}
			cur = found
			i++
			continue
		}
		return found, nil
	}
	return cur, nil
}

// ScavengeFile scans every live leader in the image, ignoring directory
// structure, and succeeds only if exactly one leader's filename matches
// name under the same prefix-match rule ResolvePath uses.
func ScavengeFile(store *PageStore, name string) (FileEntry, error) {
	if len(name) > MaxFilenameChars {
		return FileEntry{}, fmt.Errorf("%w: name %q exceeds %d bytes", ErrInvalidArgument, name, MaxFilenameChars)
	}

	var matches []FileEntry
	for vda := uint32(0); vda < store.NumPages(); vda++ {
		p, err := store.Page(vda)
		if err != nil {
			return FileEntry{}, err
		}
		if p.Label.IsFree() || p.Label.IsBad() || p.Label.Version == 0 {
			continue
		}
		if p.Label.PrevRDA != 0 {
			continue
		}
		info := DecodeFileInfo(p)
		if prefixMatch(info.Name, name) {
			matches = append(matches, FileEntry{SerialNumber: p.Label.SerialNumber, Version: p.Label.Version, LeaderVDA: vda})
		}
	}

	switch len(matches) {
	case 0:
		return FileEntry{}, fmt.Errorf("%w: scavenge found no match for %q", ErrNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return FileEntry{}, fmt.Errorf("%w: scavenge ambiguous for %q (%d matches)", ErrNotFound, name, len(matches))
	}
}
