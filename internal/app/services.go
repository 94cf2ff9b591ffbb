package app

import (
	"fmt"

	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/catalog"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/export"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/generator"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/parse"
	"github.com/yungbote/udl-lesson-backend/internal/modules/lessons/udl"
	"github.com/yungbote/udl-lesson-backend/internal/platform/artifacts"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

type Services struct {
	// Catalog is non-nil only when the catalog comes from CATALOG_PATH.
	Catalog  *catalog.Live
	Lessons  lessons.Usecases
	Exporter *export.Exporter
}

func resolveCatalog(log *logger.Logger, cfg Config) (catalog.Source, *catalog.Live, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil, nil
	}
	live, err := catalog.NewLive(cfg.CatalogPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogPath, err)
	}
	log.Info("Loaded lesson catalog", "path", cfg.CatalogPath)
	return live, live, nil
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, store artifacts.Store) (Services, error) {
	log.Info("Wiring services...")

	src, live, err := resolveCatalog(log, cfg)
	if err != nil {
		return Services{}, err
	}
	parser, err := parse.New(cfg.ParserKind, src)
	if err != nil {
		return Services{}, err
	}

	gen := generator.New(log, clients.LLM, src, parser, generator.Options{
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	engine := udl.New(log, clients.LLM, src, udl.Options{
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	exporter := export.New(log, export.Options{
		Theme:    cfg.ExportTheme,
		FontPath: cfg.ExportFontPath,
	})

	uc := lessons.New(lessons.UsecasesDeps{
		Log:            log,
		Sessions:       clients.Sessions,
		Artifacts:      store,
		Generator:      gen,
		UDL:            engine,
		Exporter:       exporter,
		DefaultProfile: cfg.DefaultProfile,
		ProviderName:   clients.ProviderName,
	})
	return Services{Catalog: live, Lessons: uc, Exporter: exporter}, nil
}
