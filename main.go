package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ByLCY/htmlpaper/config"
	"github.com/ByLCY/htmlpaper/layout"
	"github.com/ByLCY/htmlpaper/markup"
	"github.com/ByLCY/htmlpaper/renderer"
	canvasrenderer "github.com/ByLCY/htmlpaper/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/htmlpaper/renderer/fpdf"
)

const (
	appName = "htmlpaper"
	version = "0.3.0"
)

// appEnv 保存各子命令共享的运行环境，由 Before 填充、After 释放。
type appEnv struct {
	log      *zap.Logger
	closeLog func() error
	partial  *config.Partial

	// errLogged 为 true 时错误已写入日志，退出时不再重复输出
	errLogged bool
}

type envKey struct{}

func envFrom(ctx context.Context) *appEnv {
	if env, ok := ctx.Value(envKey{}).(*appEnv); ok {
		return env
	}
	return &appEnv{log: zap.NewNop()}
}

// initializeAppContext 在命令行解析完成后准备日志与配置。
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	env := envFrom(ctx)

	lc := config.LoggingConfig{Level: cmd.String("log-level"), Destination: cmd.String("log-file")}
	log, closer, err := lc.Prepare()
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.log, env.closeLog = log, closer
	env.log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", version), zap.String("runtime", runtime.Version()))

	if path := cmd.String("config"); path != "" {
		if env.partial, err = config.LoadFile(path); err != nil {
			return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
		}
		env.log.Debug("Configuration loaded", zap.String("file", path))
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) (err error) {
	env := envFrom(ctx)
	if env.closeLog != nil {
		if er := env.closeLog(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close log file: %w", er))
		}
	}
	return
}

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := envFrom(ctx)
	if env.closeLog != nil {
		env.log.Error("Program ended with error", zap.Error(err))
		env.errLogged = true
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            appName,
		Usage:           "lays out HTML (or Markdown) as paginated A4 PDF",
		Version:         version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load layout configuration from `FILE` (YAML, or block syntax for .paper/.cfg)"},
			&cli.StringFlag{Name: "log-level", Value: "normal", Usage: "console log `LEVEL` (none, normal, debug)"},
			&cli.StringFlag{Name: "log-file", Usage: "also write debug log to `FILE`"},
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Converts HTML or Markdown file to PDF",
				Action:    runConvert,
				ArgsUsage: "SOURCE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "PDF output `FILE` (default: SOURCE with .pdf extension)"},
					&cli.StringFlag{Name: "layout", Usage: "write layout JSON to `FILE`"},
					&cli.StringFlag{Name: "renderer", Value: "fpdf", Usage: "PDF `BACKEND` (fpdf, canvas)"},
					&cli.StringFlag{Name: "from", Usage: "input `FORMAT` (html, markdown), detected from extension when absent"},
					&cli.StringFlag{Name: "data", Usage: "JSON `OBJECT` bound to ${path} placeholders"},
					&cli.StringFlag{Name: "file-name", Usage: "document `NAME` recorded in layout and PDF title"},
				},
			},
			{
				Name:      "dumpconfig",
				Usage:     "Dumps resolved layout configuration (YAML)",
				Action:    outputConfiguration,
				ArgsUsage: "DESTINATION",
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.WithValue(context.Background(), envKey{}, &appEnv{log: zap.NewNop()}), os.Interrupt, syscall.SIGTERM)

	var err error
	// os.Exit 之后不会再执行其他 defer
	defer func() {
		stop()
		if err != nil {
			if !envFrom(ctx).errLogged {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = newApp().Run(ctx, os.Args)
}

// runConvert 串联读取、解析、布局与渲染。
func runConvert(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := envFrom(ctx)
	log := env.log.Named("convert")

	src := cmd.Args().First()
	if src == "" {
		return errors.New("no input source has been specified")
	}
	input, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("无法读取输入文件 %s: %w", src, err)
	}

	contentType := ""
	switch from := inputFormat(cmd.String("from"), src); from {
	case "markdown":
		html, err := markup.FromMarkdown(input)
		if err != nil {
			return err
		}
		input, contentType = []byte(html), "text/html; charset=utf-8"
	case "html":
	default:
		return fmt.Errorf("unknown input format %q (expected html or markdown)", from)
	}

	var data any
	if raw := cmd.String("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	out := cmd.String("out")
	if out == "" {
		out = strings.TrimSuffix(src, filepath.Ext(src)) + ".pdf"
	}
	fileName := cmd.String("file-name")
	if fileName == "" {
		fileName = filepath.Base(out)
	}

	result, err := layout.ConvertReader(env.partial, bytes.NewReader(input), contentType, layout.BuildOptions{
		Logger:   env.log.Named("layout"),
		Data:     data,
		FileName: fileName,
	})
	if err != nil {
		return err
	}
	if path := cmd.String("layout"); path != "" {
		if err := layout.WriteDebugJSON(result, path); err != nil {
			return fmt.Errorf("写入布局 JSON 失败: %w", err)
		}
		log.Debug("Layout written", zap.String("file", path))
	}

	r, err := newRenderer(cmd.String("renderer"), filepath.Dir(src), env.log.Named("render"))
	if err != nil {
		return err
	}
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(out, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	log.Info("PDF created", zap.String("file", out), zap.Int("pages", result.PDFInfo.PageCount))
	return nil
}

func inputFormat(flag, src string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	switch strings.ToLower(filepath.Ext(src)) {
	case ".md", ".markdown":
		return "markdown"
	}
	return "html"
}

func newRenderer(name, baseDir string, log *zap.Logger) (renderer.Renderer, error) {
	switch strings.ToLower(name) {
	case "", "fpdf":
		return fpdfrenderer.NewRenderer(baseDir, log), nil
	case "canvas":
		return canvasrenderer.NewRenderer(baseDir, log), nil
	}
	return nil, fmt.Errorf("unknown renderer %q (expected fpdf or canvas)", name)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	data, err := config.Dump(config.Resolve(envFrom(ctx).partial))
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}
	dest := cmd.Args().First()
	if dest == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}
