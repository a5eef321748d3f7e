package altofs

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// CheckImage runs the integrity checker over store, writing diagnostics
// through reporter, and returns an error wrapping ErrFormat if any page
// failed a check.
func CheckImage(store *PageStore, reporter Reporter) error {
	return checkErr(CheckIntegrity(store, reporter))
}

// OpenImage loads an image from path on fs using opts' geometry.
func OpenImage(fs afero.Fs, path string, opts *Options) (*PageStore, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	return LoadImage(fs, path, opts.Geometry)
}

// NewFileEntry builds a FileEntry identity handle from its three
// constituent fields, mirroring the facade's file_entry operation.
func NewFileEntry(sn SerialNumber, version uint16, leaderVDA uint32) FileEntry {
	return FileEntry{SerialNumber: sn, Version: version, LeaderVDA: leaderVDA}
}

// FindFile resolves path against store's directory tree, descending through
// intermediate directories and returning the final component's file entry.
func FindFile(store *PageStore, path string) (FileEntry, error) {
	return ResolvePath(store, path)
}

// FileLength returns the total number of data bytes stored in entry's file,
// summing every non-leader page's nbytes along its chain.
func FileLength(store *PageStore, entry FileEntry) (int64, error) {
	leader, err := store.Page(entry.LeaderVDA)
	if err != nil {
		return 0, err
	}

	var total int64
	next := leader.Label.NextRDA
	for next != 0 {
		vda, err := store.Geometry.RDAToVDA(next)
		if err != nil {
			return 0, fmt.Errorf("%w: walking chain for file_length: %v", ErrFormat, err)
		}
		p, err := store.Page(vda)
		if err != nil {
			return 0, err
		}
		total += int64(p.Label.NumBytes)
		next = p.Label.NextRDA
	}
	return total, nil
}

// GetFileInfo decodes and returns entry's leader metadata.
func GetFileInfo(store *PageStore, entry FileEntry) (*FileInfo, error) {
	leader, err := store.Page(entry.LeaderVDA)
	if err != nil {
		return nil, err
	}
	return DecodeFileInfo(leader), nil
}

// extractBufSize is the chunk size used to stream a file's contents out
// through a Cursor; it is unrelated to PageDataSize so reads span pages.
const extractBufSize = 4096

// ExtractFile streams entry's contents (data pages only, no leader) from
// store to a newly created host file at destPath on fs.
func ExtractFile(fs afero.Fs, store *PageStore, entry FileEntry, destPath string) error {
	cur, err := Open(store, entry, false)
	if err != nil {
		return err
	}

	out, err := fs.Create(destPath)
	if err != nil {
		return fmt.Errorf("%w: creating %q: %v", ErrIO, destPath, err)
	}
	defer out.Close()

	buf := make([]byte, extractBufSize)
	for {
		n, err := cur.Read(buf, len(buf))
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := out.Write(buf[:n]); err != nil {
			return fmt.Errorf("%w: writing %q: %v", ErrIO, destPath, err)
		}
	}
}

// ReplaceFile overwrites entry's data pages with the contents of srcPath on
// fs, extending the chain with freshly allocated pages as needed and
// trimming any pages left over from the file's previous, longer content.
func ReplaceFile(fs afero.Fs, store *PageStore, entry FileEntry, srcPath string) error {
	in, err := fs.Open(srcPath)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %v", ErrIO, srcPath, err)
	}
	defer in.Close()

	content, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("%w: reading %q: %v", ErrIO, srcPath, err)
	}

	cur, err := Open(store, entry, false)
	if err != nil {
		return err
	}
	if _, err := cur.Write(content, len(content), true); err != nil {
		return err
	}
	return cur.Trim()
}

// ScanDirectoryTree walks dir and every subdirectory it reaches, depth
// first, invoking visit with each entry's full Alto-style path
// (">"-delimited). Descent into subdirectories is unconditional; visit
// itself decides what to do with each entry.
func ScanDirectoryTree(store *PageStore, dir FileEntry, prefix string, visit func(path string, de DirEntry) error) error {
	return ScanDirectory(store, dir, func(de DirEntry) int {
		path := prefix + de.Name
		if err := visit(path, de); err != nil {
			return -1
		}
		if de.SerialNumber.IsDirectory() {
			child := FileEntry{SerialNumber: de.SerialNumber, Version: de.Version, LeaderVDA: de.LeaderVDA}
			if err := ScanDirectoryTree(store, child, path+">", visit); err != nil {
				return -1
			}
		}
		return 1
	})
}
