package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

// inlineSeeds cover the markup forms the corpus might miss.
var inlineSeeds = []string{
	``,
	`[!{}!]`,
	`[!{":ontology":{"root":"a"}}!][a>x<a]`,
	`[!{":ontology":{"root":"a"}}!][a|+A,+B>[b|A>x<b|A][c|B>y<c|B]<a|A,B]`,
	`[!{":ontology":{"root":"a"}}!][a>x [b :id=b1 n=1 f=2.5 ok=true l=["x","y"]] y<a]`,
	`[!{":ontology":{"root":"a"}}!][a>x<|one|two|>y<a]`,
	`[!{":ontology":{"root":"a"}}!][a>[! comment !]\[esc\]<a]`,
	`[!{":ontology":{"root":"a"}}!][a>[q>A<-q][+q>B<q]<a]`,
	`[a>unterminated`,
	`[!{"unterminated`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	// весь testdata/ тоже идёт в сиды; без него хватит встроенных
	corpus := os.DirFS(filepath.Join("..", "..", "testdata"))
	_ = fs.WalkDir(corpus, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if src, err := fs.ReadFile(corpus, path); err == nil {
			f.Add(clampSeed(src))
		}
		return nil
	})
}

func clampSeed(src []byte) []byte {
	return bytes.Clone(src[:min(len(src), maxSeedBytes)])
}
