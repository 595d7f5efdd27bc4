package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CodMac/pydiagram-lens/cache"
	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/model"
	"github.com/CodMac/pydiagram-lens/parser"
	"golang.org/x/sync/errgroup"
)

// Options 处理器的全部可调项, 由调用方显式传入
type Options struct {
	Language    core.Language
	Concurrency int
	// BaseModule 模块路径的起点目录名; 为空时取扫描根目录名
	BaseModule string
	// FailFast 为 true 时任一文件失败即终止整个运行, 否则记录失败并跳过该文件
	FailFast           bool
	DedupeAssociations bool
	FilterLevel        core.FilterLevel
	Logger             *slog.Logger
	Cache              *cache.ExtractionCache
	// Progress 每处理完一个文件回调一次, 会被多个 worker 并发调用
	Progress func(path string)
}

// FileFailure 单个文件的加载/解析失败
type FileFailure struct {
	Path string
	Err  error
}

// Result 一次运行的产出, Records 的顺序即发现顺序, 占位类排在最后
type Result struct {
	Records      []*model.ClassRecord
	Placeholders []*model.ClassRecord
	Failures     []FileFailure
	Warnings     []error
	Context      *core.GlobalContext
}

type FileProcessor struct {
	Options
}

func NewFileProcessor(opts Options) *FileProcessor {
	if opts.Language == "" {
		opts.Language = core.LangPython
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileProcessor{Options: opts}
}

func (fp *FileProcessor) bindOptions() core.BindOptions {
	return core.BindOptions{DedupeAssociations: fp.DedupeAssociations}
}

// ProcessPath root 为文件时进入单文件模式 (模块路径即文件名),
// 为目录时用 scanner 列出文件 (nil 表示使用默认扫描规则)
func (fp *FileProcessor) ProcessPath(ctx context.Context, root string, scanner *Scanner) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, core.NewLoadError(root, err)
	}

	if !info.IsDir() {
		stem := strings.TrimSuffix(filepath.Base(root), filepath.Ext(root))
		return fp.process(ctx, []string{root}, func(string) ([]string, error) {
			return []string{stem}, nil
		})
	}

	if scanner == nil {
		scanner = NewScanner(fp.Language, nil, DefaultExcludes)
	}
	files, err := scanner.Scan(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return fp.ProcessFiles(ctx, root, files)
}

// ProcessFiles 处理给定的文件列表, 模块路径相对 rootPath 与 BaseModule 计算
func (fp *FileProcessor) ProcessFiles(ctx context.Context, rootPath string, filePaths []string) (*Result, error) {
	anchor := fp.BaseModule
	if anchor == "" {
		absRoot, err := filepath.Abs(rootPath)
		if err != nil {
			return nil, core.NewLoadError(rootPath, err)
		}
		anchor = filepath.Base(absRoot)
	}
	return fp.process(ctx, filePaths, func(path string) ([]string, error) {
		return ModulePath(rootPath, anchor, path)
	})
}

func (fp *FileProcessor) process(ctx context.Context, filePaths []string, modulePathOf func(string) ([]string, error)) (*Result, error) {
	collector, err := core.GetCollector(fp.Language)
	if err != nil {
		return nil, err
	}
	binder, err := core.GetBinder(fp.Language)
	if err != nil {
		return nil, err
	}
	linker, err := core.GetLinker(fp.Language)
	if err != nil {
		return nil, err
	}

	// --- 阶段 1: 并行提取 (Collector + Binder), 结果按文件下标落位 ---
	contexts := make([]*core.FileContext, len(filePaths))
	failures := make([]error, len(filePaths))
	err = fp.runParallel(ctx, filePaths, func(i int, p parser.Parser) error {
		path := filePaths[i]
		fc, err := fp.extractFile(p, collector, binder, path, modulePathOf)
		if fp.Progress != nil {
			fp.Progress(path)
		}
		if err != nil {
			if fp.FailFast {
				return err
			}
			failures[i] = err
			return nil
		}
		contexts[i] = fc
		return nil
	})
	if err != nil {
		return nil, err
	}

	// --- 阶段 2: 按扫描顺序串行注册 ---
	gc := core.NewGlobalContext()
	result := &Result{Context: gc}
	for i, path := range filePaths {
		if failures[i] != nil {
			fp.Logger.Warn("file skipped", "path", path, "error", failures[i])
			result.Failures = append(result.Failures, FileFailure{Path: path, Err: failures[i]})
			continue
		}
		fc := contexts[i]
		for _, w := range fc.Warnings {
			fp.Logger.Warn("relationship dropped", "path", path, "error", w)
			result.Warnings = append(result.Warnings, w)
		}
		gc.RegisterFileContext(fc)
	}

	// --- 阶段 3: 降噪 + 全局合并 ---
	if fp.FilterLevel >= core.LevelBalanced {
		fp.dropNoise(gc, core.GetNoiseFilter(fp.Language, fp.FilterLevel))
	}
	result.Placeholders = linker.LinkRecords(gc, fp.bindOptions())
	if fp.FilterLevel == core.LevelPure {
		fp.prunePlaceholders(gc)
		result.Placeholders = nil
	}
	result.Records = gc.Records

	fp.Logger.Info("analysis finished",
		"files", len(filePaths),
		"failed", len(result.Failures),
		"records", len(result.Records),
		"placeholders", len(result.Placeholders),
	)
	return result, nil
}

// extractFile 单文件流水线: 读取 -> 缓存 -> 解析 -> 收集 -> 绑定 -> 释放语法树
func (fp *FileProcessor) extractFile(p parser.Parser, collector core.Collector, binder core.Binder, path string, modulePathOf func(string) ([]string, error)) (*core.FileContext, error) {
	modulePath, err := modulePathOf(path)
	if err != nil {
		return nil, err
	}
	source, err := parser.LoadSource(path)
	if err != nil {
		return nil, err
	}

	key := cache.Key(source, modulePath, fp.bindOptions())
	if fc, ok := fp.Cache.Get(key); ok {
		fc.SetFilePath(path)
		return fc, nil
	}

	tree, err := p.Parse(source)
	if err != nil {
		if ae, ok := err.(*core.AnalysisError); ok {
			return nil, ae.WithFile(path)
		}
		return nil, err
	}
	defer tree.Close()

	fc, err := collector.CollectDefinitions(tree.RootNode(), path, modulePath, &source)
	if err != nil {
		return nil, err
	}
	if err := binder.BindRelationships(fc, fp.bindOptions()); err != nil {
		return nil, err
	}
	fc.Release()

	fp.Cache.Add(key, fc)
	return fc, nil
}

// runParallel 内部并发调度器: 每个 worker 持有独立的 parser
func (fp *FileProcessor) runParallel(ctx context.Context, paths []string, task func(int, parser.Parser) error) error {
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := range paths {
			if err := gctx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	workers := min(fp.Concurrency, len(paths))
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			p, err := parser.NewParser(fp.Language)
			if err != nil {
				return err
			}
			defer p.Close()

			for i := range jobs {
				if err := task(i, p); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// dropNoise 在合并前丢弃噪音关系, 被丢弃的继承边不会再合成占位类
func (fp *FileProcessor) dropNoise(gc *core.GlobalContext, filter core.NoiseFilter) {
	for _, rec := range gc.Records {
		kept := make([]model.RelationshipInfo, 0, len(rec.Relationships))
		for _, rel := range rec.Relationships {
			if !filter.IsNoise(rel) {
				kept = append(kept, rel)
			}
		}
		rec.Relationships = kept
	}
}

// prunePlaceholders Pure 等级: 只保留源码中定义的类, 以及它们之间的关系
func (fp *FileProcessor) prunePlaceholders(gc *core.GlobalContext) {
	defined := make([]*model.ClassRecord, 0, len(gc.Records))
	for _, rec := range gc.Records {
		if rec.IsExternal {
			continue
		}
		kept := make([]model.RelationshipInfo, 0, len(rec.Relationships))
		for _, rel := range rec.Relationships {
			if target, ok := gc.ResolveRelationship(rel); ok && !target.IsExternal {
				kept = append(kept, rel)
			}
		}
		rec.Relationships = kept
		defined = append(defined, rec)
	}
	gc.ReplaceRecords(defined)
}

// ModulePath 计算文件的模块路径: 从 anchor 目录开始到文件本身 (去掉后缀)。
// anchor 先在根路径中找最后一次出现, 找不到再在相对路径中找第一次出现。
func ModulePath(rootPath, anchor, filePath string) ([]string, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, core.NewLoadError(filePath, err)
	}
	absFile, err := filepath.Abs(filePath)
	if err != nil {
		return nil, core.NewLoadError(filePath, err)
	}
	rel, err := filepath.Rel(absRoot, absFile)
	if err != nil {
		return nil, core.NewLoadError(filePath, err)
	}

	relSegs := splitPath(rel)
	if n := len(relSegs); n > 0 {
		relSegs[n-1] = strings.TrimSuffix(relSegs[n-1], filepath.Ext(relSegs[n-1]))
	}
	rootSegs := splitPath(absRoot)

	for i := len(rootSegs) - 1; i >= 0; i-- {
		if rootSegs[i] == anchor {
			return append(append([]string{}, rootSegs[i:]...), relSegs...), nil
		}
	}
	for i, seg := range relSegs {
		if seg == anchor {
			return append([]string{}, relSegs[i:]...), nil
		}
	}
	return nil, core.NewLoadError(filePath, fmt.Errorf("base module %q not found in path", anchor))
}

func splitPath(p string) []string {
	var out []string
	for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
		if seg != "" && seg != "." && !strings.HasSuffix(seg, ":") {
			out = append(out, seg)
		}
	}
	return out
}
