package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"portfolio-motion/internal/config"
	"portfolio-motion/internal/page"
	"portfolio-motion/internal/trace"
	"portfolio-motion/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	envFile := os.Getenv(config.EnvPrefix + "ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	cfg, err := config.Load(envFile, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		utils.Error("Invalid configuration: %v", err)
		os.Exit(2)
	}

	utils.CurrentLevel = cfg.Level()
	utils.ShowRaylibInfo = cfg.RaylibInfo
	utils.ShowDebugUI = cfg.Debug
	utils.AssetsPath = cfg.Assets

	if cfg.Inspect != "" {
		if err := runInspect(cfg.Inspect); err != nil {
			utils.Error("Inspect failed: %v", err)
			os.Exit(1)
		}
		return
	}

	doc, err := loadPage(cfg)
	if err != nil {
		utils.Error("Failed to load page: %v", err)
		os.Exit(1)
	}

	var recorder *trace.Recorder
	if cfg.Record != "" {
		recorder, err = trace.Create(cfg.Record)
		if err != nil {
			utils.Error("Failed to start recording: %v", err)
			os.Exit(1)
		}
		utils.Info("Recording particle trace to %s", cfg.Record)
	}

	rl.SetTraceLogCallback(utils.RaylibLogCallback)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)

	title := doc.Title
	if title == "" {
		title = "Portfolio"
	}
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), title)

	window := NewWindow(cfg, doc, recorder)
	utils.Info("Starting render loop...")
	window.Run()
	window.Close()
	rl.CloseWindow()

	if recorder != nil {
		if err := recorder.Close(); err != nil {
			utils.Error("Failed to finish trace: %v", err)
			os.Exit(1)
		}
		utils.Info("Recorded %d frames to %s", recorder.Frames(), cfg.Record)
	}
}

func loadPage(cfg config.Config) (*page.Document, error) {
	width, height := float64(cfg.Width), float64(cfg.Height)
	if cfg.Page == "" {
		return page.Default(width, height)
	}

	path := utils.ResolveAssetPath(cfg.Page)
	if path == "" {
		return nil, fmt.Errorf("page %s not found", cfg.Page)
	}
	utils.Info("Loading page %s", path)
	return page.Load(path, width, height)
}

func runInspect(path string) error {
	r, err := trace.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	summary, err := trace.Summarize(r)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", path, summary)
	return nil
}
