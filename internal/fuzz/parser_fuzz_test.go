package fuzztests

import (
	"context"
	"testing"
	"time"

	"tagml/internal/driver"
	"tagml/internal/sema"
	"tagml/internal/testkit"
)

// parseTimeout is the maximum time allowed for validating a single input.
// If it takes longer, the parser or sema is probably looping.
const parseTimeout = 5 * time.Second

func FuzzParseInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		for _, opts := range []driver.Options{
			{},
			{UnclosedMarkup: sema.UnclosedIgnore, TextPolicy: sema.TextSuppressOutsideMarkup},
		} {
			res := driver.ParseSource("fuzz.tagml", input, opts)
			if err := testkit.CheckTokenInvariants(res.File, res.Tokens, res.OK() && opts.UnclosedMarkup == sema.UnclosedError); err != nil {
				t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
			}
			if res.OK() != (len(res.Errors) == 0) {
				t.Fatalf("OK() disagrees with %d errors", len(res.Errors))
			}
		}
	})
}

// FuzzParseNoHang checks that validation finishes on any input.
func FuzzParseNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// Add specific edge cases around recovery
	f.Add([]byte(`[!{":ontology":{"root":"a"}}!][a>[b>[c>`))        // nothing closed
	f.Add([]byte(`[!{":ontology":{"root":"a"}}!]<a]<b]<c]`))        // only closing tags
	f.Add([]byte(`[!{":ontology":{"root":"a"}}!][a><|<|<|x|>y<a]`)) // nested variations
	f.Add([]byte(`[!{":ontology":{"root":"a"}}!][a>[+q>x<a]`))      // resume without suspend
	f.Add([]byte("[!{\":ontology\":{\"root\":\"a\"}}!][a x=\"\\\"]"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = driver.ParseSource("fuzz.tagml", input, driver.Options{ReportAmbiguity: true})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("validation hang detected: took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
