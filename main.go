package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mtgtools/labelpress/api"
	"github.com/mtgtools/labelpress/cache"
	"github.com/mtgtools/labelpress/config"
	"github.com/mtgtools/labelpress/labels"
	"github.com/mtgtools/labelpress/pdfgen"
	canvasrenderer "github.com/mtgtools/labelpress/renderer/canvas"
	"github.com/mtgtools/labelpress/scryfall"
)

// Version 构建时注入。
var Version = "dev"

func main() {
	configPath := flag.String("config", "labelpress.yaml", "配置文件路径")
	flag.Parse()

	logger := log.New(os.Stderr, "labelpress ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("加载配置失败: %v", err)
	}

	e, cleanup, err := buildServer(cfg, logger)
	if err != nil {
		logger.Fatalf("初始化失败: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Printf("监听 %s", cfg.Addr())
		if err := e.Start(cfg.Addr()); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("服务启动失败: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Printf("关闭服务失败: %v", err)
	}
}

// buildServer 组装全部依赖并返回就绪的 echo 实例。
func buildServer(cfg *config.Config, logger *log.Logger) (*echo.Echo, func(), error) {
	cacheManager := cache.NewManager(cfg.Cache.TTL(), cfg.Cache.MaxEntries)

	symbolStore, err := cache.NewSymbolStore(cfg.Cache.SymbolDir, logger)
	if err != nil {
		cacheManager.Close()
		return nil, nil, err
	}

	client := scryfall.NewClient(scryfall.Config{
		BaseURL:        cfg.Scryfall.BaseURL,
		SymbologyURL:   cfg.Scryfall.SymbologyURL,
		Timeout:        cfg.Scryfall.Timeout(),
		RetryAttempts:  cfg.Scryfall.RetryAttempts,
		RateLimitDelay: cfg.Scryfall.RateLimitDelay(),
		MinSetSize:     cfg.Scryfall.MinSetSize,
	}, cacheManager, logger)

	resolver := scryfall.NewResolver(client, symbolStore, logger)

	renderer, err := canvasrenderer.NewRenderer(canvasrenderer.Options{
		TitleFontPath: cfg.TitleFontPath(),
		BodyFontPath:  cfg.BodyFontPath(),
		DrawingCache:  canvasrenderer.NewDrawingCache(cfg.Cache.DrawingCapacity),
		Logger:        logger,
	})
	if err != nil {
		cacheManager.Close()
		return nil, nil, err
	}

	registry := labels.NewRegistry(logger)
	registry.SetDefault(cfg.Labels.DefaultTemplate)

	generator, err := pdfgen.NewGenerator(pdfgen.Options{
		Registry:       registry,
		Renderer:       renderer,
		Measurer:       renderer,
		Symbols:        resolver,
		OverlayEnabled: cfg.Overlay.Enabled,
		TemplatePDFs:   cfg.Overlay.Templates,
		Logger:         logger,
	})
	if err != nil {
		cacheManager.Close()
		return nil, nil, err
	}

	handlers := api.NewHandlers(api.Dependencies{
		Sets:      client,
		Generator: generator,
		Registry:  registry,
		Stats:     cacheManager,
		Version:   Version,
		Logger:    logger,
	})

	e := echo.New()
	e.HideBanner = true
	api.SetupMiddleware(e)
	api.RegisterRoutes(e, handlers)

	return e, func() { cacheManager.Close() }, nil
}
