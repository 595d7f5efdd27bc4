package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/CodMac/pydiagram-lens/cache"
	"github.com/CodMac/pydiagram-lens/config"
	"github.com/CodMac/pydiagram-lens/core"
	"github.com/CodMac/pydiagram-lens/output"
	"github.com/CodMac/pydiagram-lens/processor"
	_ "github.com/CodMac/pydiagram-lens/x/python"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const (
	MaxMermaidNodes = 200
	MaxMermaidEdges = 400
)

type cliFlags struct {
	ConfigFile  string
	BaseModule  string
	Jobs        int
	OutDir      string
	Format      string
	FilterLevel string
	LogLevel    string
	Excludes    []string
	FailFast    bool
	Dedupe      bool
	NoProgress  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}
	cmd := &cobra.Command{
		Use:   "pydiagram-lens [path]",
		Short: "Extract a class/relationship graph from Python sources",
		Long: `pydiagram-lens parses every Python file under a directory (or a single file),
collects classes with their attributes and methods, resolves inheritance and
association relationships across modules, and writes the graph for a diagram renderer.

Examples:
  pydiagram-lens ./myproject                       # JSON into ./output
  pydiagram-lens ./myproject --base-module myproject --format mermaid
  pydiagram-lens ./myproject/models.py --format yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := loadConfig(cmd, flags, path)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.ErrOrStderr(), cfg, path, !flags.NoProgress)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.ConfigFile, "config", "", "配置文件 (默认为目标目录下的 "+config.FileName+")")
	f.StringVar(&flags.BaseModule, "base-module", "", "模块路径起点目录名 (默认为扫描根目录名)")
	f.IntVarP(&flags.Jobs, "jobs", "j", 4, "并发数")
	f.StringVarP(&flags.OutDir, "out-dir", "o", "./output", "输出目录")
	f.StringVar(&flags.Format, "format", "json", "格式: json, jsonl, yaml, mermaid")
	f.StringVar(&flags.FilterLevel, "level", "raw", "过滤等级: raw, balanced, pure")
	f.StringVar(&flags.LogLevel, "log-level", "info", "日志等级: debug, info, warn, error")
	f.StringSliceVar(&flags.Excludes, "exclude", nil, "额外的排除模式 (doublestar)")
	f.BoolVar(&flags.FailFast, "fail-fast", false, "任一文件失败即终止")
	f.BoolVar(&flags.Dedupe, "dedupe", false, "同一对类之间的关联只保留一条")
	f.BoolVar(&flags.NoProgress, "no-progress", false, "不显示进度条")
	return cmd
}

// loadConfig 配置文件打底, 显式给出的命令行参数覆盖文件中的值
func loadConfig(cmd *cobra.Command, flags *cliFlags, path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flags.ConfigFile != "" {
		cfg, err = config.Load(flags.ConfigFile)
	} else {
		dir := path
		if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
			dir = filepath.Dir(path)
		}
		cfg, err = config.LoadFromDir(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("base-module") {
		cfg.Analysis.BaseModule = flags.BaseModule
	}
	if changed("jobs") {
		cfg.Analysis.Jobs = flags.Jobs
	}
	if changed("out-dir") {
		cfg.Output.Dir = flags.OutDir
	}
	if changed("format") {
		cfg.Output.Format = flags.Format
	}
	if changed("level") {
		cfg.Analysis.FilterLevel = flags.FilterLevel
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.LogLevel
	}
	if changed("exclude") {
		cfg.Analysis.Excludes = append(cfg.Analysis.Excludes, flags.Excludes...)
	}
	if changed("fail-fast") {
		cfg.Analysis.FailFast = flags.FailFast
	}
	if changed("dedupe") {
		cfg.Analysis.DedupeAssociations = flags.Dedupe
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, stderr io.Writer, cfg *config.Config, path string, showProgress bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()
	logLevel, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))
	lang := core.Language(cfg.Analysis.Language)

	// 1. 扫描文件
	fmt.Fprintf(stderr, "[1/4] 🔍 正在扫描: %s\n", path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("扫描文件失败: %w", err)
	}
	files := []string{path}
	if info.IsDir() {
		scanner := processor.NewScanner(lang, cfg.Analysis.Includes, cfg.Analysis.Excludes)
		if cfg.Analysis.Gitignore {
			if err := scanner.AddGitignore(filepath.Join(path, ".gitignore")); err != nil {
				return fmt.Errorf("读取 .gitignore 失败: %w", err)
			}
		}
		if files, err = scanner.Scan(path); err != nil {
			return fmt.Errorf("扫描文件失败: %w", err)
		}
	}
	fmt.Fprintf(stderr, "    找到 %d 个候选文件\n", len(files))

	// 2. 执行核心分析过程
	fmt.Fprintf(stderr, "[2/4] ⚙️  正在分析类与关系 (Level: %s)...\n", cfg.Analysis.FilterLevel)
	extractionCache, err := cache.New(cfg.Analysis.CacheSize)
	if err != nil {
		return fmt.Errorf("创建缓存失败: %w", err)
	}
	proc := processor.NewFileProcessor(processor.Options{
		Language:           lang,
		Concurrency:        cfg.Analysis.Jobs,
		BaseModule:         cfg.Analysis.BaseModule,
		FailFast:           cfg.Analysis.FailFast,
		DedupeAssociations: cfg.Analysis.DedupeAssociations,
		FilterLevel:        cfg.FilterLevel(),
		Logger:             logger,
		Cache:              extractionCache,
		Progress:           newProgress(stderr, len(files), showProgress),
	})

	var result *processor.Result
	if info.IsDir() {
		result, err = proc.ProcessFiles(ctx, path, files)
	} else {
		result, err = proc.ProcessPath(ctx, path, nil)
	}
	if err != nil {
		return fmt.Errorf("分析执行失败: %w", err)
	}
	if len(result.Failures) > 0 {
		fmt.Fprintf(stderr, "    ⚠️  %d 个文件被跳过\n", len(result.Failures))
	}

	// 3. 执行导出逻辑
	fmt.Fprintf(stderr, "[3/4] 💾 正在写入结果文件...\n")
	format, _ := output.ParseOutType(cfg.Output.Format)
	if format == output.Mermaid && tooLargeForMermaid(result) {
		fmt.Fprintf(stderr, "    ⚠️  规模过大(%d 节点)，Mermaid 渲染可能失败，自动降级为 json\n", len(result.Records))
		format = output.JSON
	}
	exporter := output.NewExporter(cfg.Output.Dir, format)
	ec, rc, outPath, err := exporter.Export(result.Context, result.Records)
	if err != nil {
		return fmt.Errorf("导出失败: %w", err)
	}

	fmt.Fprintf(stderr, "    ✅ 完成: 导出类=%d, 关系=%d -> %s\n", ec, rc, outPath)
	fmt.Fprintf(stderr, "\n[4/4] ✨ 分析结束! 总耗时: %v\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}

func tooLargeForMermaid(result *processor.Result) bool {
	edges := 0
	for _, rec := range result.Records {
		edges += len(rec.Relationships)
	}
	return len(result.Records) > MaxMermaidNodes || edges > MaxMermaidEdges
}

// newProgress 进度回调会被多个 worker 并发调用
func newProgress(w io.Writer, total int, enabled bool) func(string) {
	if !enabled || total == 0 {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Analyzing[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
	var mu sync.Mutex
	return func(string) {
		mu.Lock()
		defer mu.Unlock()
		_ = bar.Add(1)
	}
}
