package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var languageSeeds = []string{
	"",
	"print 1;",
	"print 1 + 2 * 3 - 4 / 5;",
	"fn f(x) = x; print f(1);",
	"fn f(x, y,) = x * (y + 1);",
	"fn f() = g(); fn g() = f();",
	"print 1 + + 2",
	"fn café(x) = x; print café(2);",
	"// comment only\n",
	"fn f(x) = y",
	"print 1 $ 2;",
	"print 1.5.2;",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
	addDocSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.calc файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".calc" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

// addDocSeeds добавляет фрагменты ```calc из docs/LANGUAGE.md.
func addDocSeeds(f *testing.F) {
	// #nosec G304 -- fixed repository path
	data, err := os.ReadFile(filepath.Join("..", "..", "docs", "LANGUAGE.md"))
	if err != nil {
		return
	}
	for _, snippet := range calcBlocks(data) {
		f.Add(snippet)
	}
}

func calcBlocks(data []byte) [][]byte {
	var (
		out     [][]byte
		block   [][]byte
		inBlock bool
	)
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		trimmed := strings.TrimSpace(string(line))
		if strings.HasPrefix(trimmed, "```calc") {
			inBlock = true
			block = block[:0]
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			if inBlock {
				if snippet := clampSeed(bytes.Join(block, []byte{'\n'})); len(snippet) > 0 {
					out = append(out, snippet)
				}
			}
			inBlock = false
			block = block[:0]
			continue
		}
		if inBlock {
			block = append(block, line)
		}
	}
	return out
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
