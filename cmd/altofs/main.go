package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/charlesthegreat77/goalto/altofs"
)

var (
	summary  bool
	check    bool
	extract  string
	outDir   string
	replace  string
	srcPath  string
	outImage string
	help     bool
)

func main() {
	flag.BoolVar(&summary, "s", false, "print filesystem summary")
	flag.BoolVar(&check, "check", false, "run the integrity checker and print every diagnostic")
	flag.StringVar(&extract, "e", "", "extract the named file to the host filesystem")
	flag.StringVar(&outDir, "o", ".", "destination directory for -e")
	flag.StringVar(&replace, "r", "", "replace the named file's contents from -src")
	flag.StringVar(&srcPath, "src", "", "host source file for -r")
	flag.StringVar(&outImage, "o-image", "", "output path for a modified image (default: overwrite input)")
	flag.BoolVar(&help, "h", false, "show usage")
	flag.Parse()

	if help || flag.NArg() < 1 {
		flag.Usage()
		return
	}
	imagePath := flag.Arg(0)

	fs := altofs.DefaultFs()
	reporter := altofs.NewLogReporter(log.Default())

	store, err := altofs.OpenImage(fs, imagePath, altofs.DefaultOptions())
	if err != nil {
		log.Fatalf("loading %q: %v", imagePath, err)
	}

	if check {
		if err := altofs.CheckImage(store, reporter); err != nil {
			fmt.Println("integrity check failed")
			os.Exit(1)
		}
		fmt.Println("integrity check passed")
	}

	switch {
	case extract != "":
		runExtract(fs, store, extract)
	case replace != "":
		runReplace(fs, store, imagePath, replace)
	case summary:
		runSummary(store)
	}
}

func runSummary(store *altofs.PageStore) {
	root, err := altofs.RootFileEntry(store)
	if err != nil {
		log.Fatalf("reading root directory: %v", err)
	}
	info, err := altofs.GetFileInfo(store, root)
	if err != nil {
		log.Fatalf("reading root metadata: %v", err)
	}
	fmt.Printf("root: %s\n", info.Name)

	err = altofs.ScanDirectoryTree(store, root, "<", func(path string, de altofs.DirEntry) error {
		kind := "file"
		if de.SerialNumber.IsDirectory() {
			kind = "dir"
		}
		fmt.Printf("%-6s %s\n", kind, path)
		return nil
	})
	if err != nil {
		log.Fatalf("scanning directory tree: %v", err)
	}
}

func runExtract(fs afero.Fs, store *altofs.PageStore, name string) {
	entry, err := altofs.FindFile(store, name)
	if err != nil {
		log.Fatalf("finding %q: %v", name, err)
	}
	dest := filepath.Join(outDir, filepath.Base(name))
	if err := altofs.ExtractFile(fs, store, entry, dest); err != nil {
		log.Fatalf("extracting %q: %v", name, err)
	}
	fmt.Printf("extracted %q to %q\n", name, dest)
}

func runReplace(fs afero.Fs, store *altofs.PageStore, imagePath, name string) {
	if srcPath == "" {
		log.Fatalf("-r requires -src")
	}
	entry, err := altofs.FindFile(store, name)
	if err != nil {
		log.Fatalf("finding %q: %v", name, err)
	}
	if err := altofs.ReplaceFile(fs, store, entry, srcPath); err != nil {
		log.Fatalf("replacing %q: %v", name, err)
	}

	dest := outImage
	if dest == "" {
		dest = imagePath
	}
	if err := altofs.SaveImage(fs, dest, store); err != nil {
		log.Fatalf("saving %q: %v", dest, err)
	}
	fmt.Printf("replaced %q, wrote %q\n", name, dest)
}
