package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"tagml/internal/diag"
	"tagml/internal/source"
	"tagml/internal/trace"
)

// ProgressStatus is the state of one file in a directory run.
type ProgressStatus uint8

const (
	StatusQueued ProgressStatus = iota
	StatusWorking
	StatusOK
	StatusFailed
	StatusCached
)

func (s ProgressStatus) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "validating"
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusCached:
		return "cached"
	}
	return "unknown"
}

// ProgressEvent reports a status change of one file. Events arrive from
// worker goroutines.
type ProgressEvent struct {
	File   string
	Status ProgressStatus
}

// DirResult содержит результаты проверки каталога, по одному на файл,
// в порядке сортировки путей.
type DirResult struct {
	RunID   string // uuid, для JSON-отчётов
	Dir     string
	FileSet *source.FileSet
	Files   []*Result
}

// OK reports whether every file is valid.
func (d *DirResult) OK() bool {
	for _, r := range d.Files {
		if !r.OK() {
			return false
		}
	}
	return true
}

// Counts returns the total number of errors and warnings.
func (d *DirResult) Counts() (errs, warns int) {
	for _, r := range d.Files {
		if r == nil {
			continue
		}
		errs += len(r.Errors)
		warns += len(r.Warnings)
	}
	return errs, warns
}

// ListFiles возвращает отсортированный список всех файлов с расширением ext
// (Extension, если пусто) в каталоге. Hidden directories are skipped.
func ListFiles(dir, ext string) ([]string, error) {
	if ext == "" {
		ext = Extension
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", dir)
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ParseDir validates every document under dir (see Options.Extension) with
// at most jobs workers (GOMAXPROCS when jobs <= 0). A file that cannot be
// read gets a result with an IOLoadFileError; only walking the tree or
// cancellation fail the run.
func ParseDir(ctx context.Context, dir string, opts Options, jobs int) (*DirResult, error) {
	if opts.Tracer == nil {
		opts.Tracer = trace.FromContext(ctx)
	}
	tr := opts.Tracer
	run := &DirResult{RunID: uuid.NewString(), Dir: dir, FileSet: source.NewFileSet()}

	root := trace.Begin(tr, trace.ScopeDriver, "check", trace.SpanFromContext(ctx)).
		WithExtra("dir", dir).
		WithExtra("run", run.RunID)
	defer func() { root.End(fmt.Sprintf("%d files", len(run.Files))) }()

	done := opts.Timer.Start("list")
	files, err := ListFiles(dir, opts.Extension)
	done(fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return run, err
	}
	if len(files) == 0 {
		return run, nil
	}

	// загружаем заранее, чтобы FileID шли в порядке путей
	done = opts.Timer.Start("load")
	ids := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	for i, path := range files {
		id, err := run.FileSet.Load(path)
		if err != nil {
			loadErrs[i] = err
			id = run.FileSet.AddVirtual(path, nil)
		}
		ids[i] = id
	}
	done("")

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	fileOpts := opts
	fileOpts.Timer = nil // фазы отдельных файлов не пишем

	// индексы уникальны для каждой горутины, мьютекс не нужен
	run.Files = make([]*Result, len(files))

	done = opts.Timer.Start("validate")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			opts.progress(ProgressEvent{File: path, Status: StatusWorking})
			span := trace.Begin(tr, trace.ScopeFile, "file:"+path, root.ID())

			res, status := validateOne(run.FileSet.Get(ids[i]), loadErrs[i], fileOpts, span.ID())
			res.FileSet = run.FileSet
			run.Files[i] = res

			span.End(status.String())
			opts.progress(ProgressEvent{File: path, Status: status})
			return nil
		})
	}
	err = g.Wait()
	done(fmt.Sprintf("jobs=%d", jobs))
	if err != nil {
		return run, errors.Wrap(err, "check cancelled")
	}
	return run, nil
}

func validateOne(file *source.File, loadErr error, opts Options, parent uint64) (*Result, ProgressStatus) {
	if loadErr != nil {
		d := diag.Diagnostic{
			Severity: diag.SevError,
			Kind:     diag.KindCustom,
			Code:     diag.IOLoadFileError,
			Message:  diag.IOLoadFileError.Format(loadErr.Error()),
		}
		return &Result{File: file, Errors: []diag.Diagnostic{d}}, StatusFailed
	}

	var key Digest
	if opts.Cache != nil {
		key = CacheKey(file.Content, opts)
		s, ok, err := opts.Cache.Get(key)
		switch {
		case err != nil:
			trace.Point(opts.tracer(), trace.ScopeFile, "cache", parent, err.Error())
		case ok && s.Hash == file.Hash:
			return restore(file, s), StatusCached
		}
	}

	res := check(file, opts, parent)
	if opts.Cache != nil {
		if err := opts.Cache.Put(key, summarize(res)); err != nil {
			trace.Point(opts.tracer(), trace.ScopeFile, "cache", parent, err.Error())
		}
	}
	if res.OK() {
		return res, StatusOK
	}
	return res, StatusFailed
}
