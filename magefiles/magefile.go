//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for tagprint developer tooling.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/tagprint/internal/samples"
)

const (
	binDir  = "bin"
	binName = "tagprint"
	cmdPkg  = "./cmd/tagprint"

	versionVar = "main.version"

	samplesDir  = "samples/36h11_original"
	sampleCount = 12
	sampleScale = 8
)

// Build compiles the CLI binary into bin/. VERSION, when set, is stamped
// into the binary.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	args := []string{"build", "-o", out}
	if v := os.Getenv("VERSION"); v != "" {
		args = append(args, "-ldflags", fmt.Sprintf("-X %s=%s", versionVar, v))
	}
	if err := sh.RunV("go", append(args, cmdPkg)...); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests of every package.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Samples writes synthetic marker images to samples/36h11_original for
// trying out tagprint convert.
func Samples() error {
	ids := make([]int, sampleCount)
	for i := range ids {
		ids[i] = i
	}
	paths, err := samples.WriteTags(samplesDir, ids, sampleScale)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d sample tags to %s\n", len(paths), samplesDir)
	return nil
}

// Demo converts the sample tags into samples/36h11_print at the default
// print size.
func Demo() error {
	mg.Deps(Build, Samples)
	return sh.RunV(filepath.Join(binDir, binName), "convert", samplesDir, "samples/36h11_print")
}

// Clean removes build output and generated samples.
func Clean() error {
	for _, dir := range []string{binDir, "samples"} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}

// Stats prints Go production and test line counts per top-level directory
// and the number of sample images on disk.
func Stats() error {
	counts := map[string][2]int{}
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return err
		}
		top := strings.SplitN(filepath.ToSlash(path), "/", 2)[0]
		c := counts[top]
		if strings.HasSuffix(path, "_test.go") {
			c[1] += n
		} else {
			c[0] += n
		}
		counts[top] = c
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(counts))
	for dir := range counts {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var prod, test int
	fmt.Printf("%-12s  %8s  %8s\n", "Directory", "Go", "Tests")
	for _, dir := range dirs {
		c := counts[dir]
		prod += c[0]
		test += c[1]
		fmt.Printf("%-12s  %8d  %8d\n", dir, c[0], c[1])
	}
	fmt.Printf("%-12s  %8d  %8d\n", "total", prod, test)

	images, err := filepath.Glob(filepath.Join(samplesDir, "*.png"))
	if err != nil {
		return err
	}
	fmt.Printf("Sample tags: %d\n", len(images))
	return nil
}

// countLines returns the number of non-blank lines in the file at path.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			n++
		}
	}
	return n, scanner.Err()
}
