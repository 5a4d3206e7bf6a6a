package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"meal-planner/internal/app"
	"meal-planner/internal/config"
	"meal-planner/internal/database"
	"meal-planner/internal/ghost"
	"meal-planner/internal/logger"
	"meal-planner/internal/mealtemplate"
	"meal-planner/internal/quiz"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.LogMode, cfg.LogHashSalt)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	normalizer, err := newNormalizer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize answer normalizer: %v", err)
	}

	var opts []app.Option
	if cfg.RedisURL != "" {
		rdb, err := mealtemplate.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			// Imports still work; the server's cache expires on its own.
			lg.Warn("redis unavailable, catalog cache will not be invalidated", "error", err)
		} else {
			defer rdb.Close()
			cache := mealtemplate.NewCachedCatalog(mealtemplate.NewRepository(db.SQL), rdb, cfg.CatalogCacheTTL, lg)
			opts = append(opts, app.WithCatalogCache(cache))
		}
	}
	if cfg.GhostURL != "" {
		opts = append(opts, app.WithGhost(ghost.NewClient(cfg)))
	}
	application := app.NewApp(cfg, lg, db, normalizer, opts...)

	switch os.Args[1] {
	case "import-templates":
		cmd := flag.NewFlagSet("import-templates", flag.ExitOnError)
		file := cmd.String("file", "", "Import from a JSON file instead of Ghost")
		cmd.Parse(os.Args[2:])

		var source mealtemplate.Source
		if *file != "" {
			source = mealtemplate.NewFileSource(*file)
		} else {
			if err := cfg.RequireGhostContent(); err != nil {
				log.Fatalf("Cannot import from Ghost: %v", err)
			}
			source, err = application.GhostTemplateSource()
			if err != nil {
				log.Fatalf("Cannot import from Ghost: %v", err)
			}
		}
		n, err := application.ImportTemplates(ctx, source)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Printf("Imported %d meal templates.\n", n)

	case "export-templates":
		cmd := flag.NewFlagSet("export-templates", flag.ExitOnError)
		out := cmd.String("out", "", "Path of the JSON file to write")
		cmd.Parse(os.Args[2:])
		if *out == "" {
			log.Fatal("-out is required")
		}
		n, err := application.ExportTemplates(ctx, *out)
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("Exported %d meal templates to %s.\n", n, *out)

	case "clip-template":
		cmd := flag.NewFlagSet("clip-template", flag.ExitOnError)
		url := cmd.String("url", "", "Recipe page to clip")
		category := cmd.String("category", "", "Meal slot when the page does not name one")
		cmd.Parse(os.Args[2:])
		if *url == "" {
			log.Fatal("-url is required")
		}
		if err := cfg.RequireGhostAdmin(); err != nil {
			log.Fatalf("Cannot save to Ghost: %v", err)
		}
		post, err := application.ClipTemplate(ctx, *url, mealtemplate.Category(strings.ToLower(*category)))
		if err != nil {
			log.Fatalf("Clipping failed: %v", err)
		}
		fmt.Printf("Draft %s created: %s. Tag it %q and publish to add it to the catalog.\n", post.ID, post.Title, cfg.GhostTemplateTag)

	case "regenerate-plans":
		report, err := application.RegeneratePlans(ctx)
		if err != nil {
			log.Fatalf("Regeneration stopped after %d users: %v", report.Users, err)
		}
		fmt.Printf("Regenerated plans for %d users (%d failed) in %s.\n", report.Succeeded, report.Failed, report.Duration)

	case "publish-plan":
		cmd := flag.NewFlagSet("publish-plan", flag.ExitOnError)
		user := cmd.String("user", "", "User whose current plan is published")
		cmd.Parse(os.Args[2:])
		if *user == "" {
			log.Fatal("-user is required")
		}
		if err := cfg.RequireGhostAdmin(); err != nil {
			log.Fatalf("Cannot publish to Ghost: %v", err)
		}
		post, err := application.PublishPlan(ctx, *user)
		if err != nil {
			log.Fatalf("Publishing failed: %v", err)
		}
		fmt.Printf("Draft %s created: %s\n", post.ID, post.Title)

	case "metrics":
		cmd := flag.NewFlagSet("metrics", flag.ExitOnError)
		days := cmd.Int("days", 7, "Number of days to report")
		cmd.Parse(os.Args[2:])

		stats, err := application.DailyStats(ctx, *days)
		if err != nil {
			log.Fatalf("Failed to read metrics: %v", err)
		}
		if len(stats) == 0 {
			fmt.Println("No plan generations recorded.")
			return
		}
		fmt.Printf("%-10s  %11s  %8s  %10s  %8s\n", "DATE", "GENERATIONS", "FAILURES", "AVG MS", "WARNINGS")
		for _, s := range stats {
			fmt.Printf("%-10s  %11d  %8d  %10.0f  %8d\n", s.Date, s.Generations, s.Failures, s.AvgLatencyMS, s.Warnings)
		}

	case "metrics-cleanup":
		cmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cmd.Int("days", 30, "Keep records for the last N days")
		cmd.Parse(os.Args[2:])

		affected, err := application.Metrics().Cleanup(ctx, *days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func newNormalizer(cfg *config.Config) (*quiz.Normalizer, error) {
	if cfg.AliasesPath == "" {
		return quiz.NewDefaultNormalizer()
	}
	aliases, err := quiz.LoadAliases(cfg.AliasesPath)
	if err != nil {
		return nil, err
	}
	return quiz.NewNormalizer(aliases)
}

func printUsage() {
	fmt.Println("Usage: meal-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  import-templates   Replace the template catalog from Ghost or -file")
	fmt.Println("  export-templates   Write the template catalog to -out")
	fmt.Println("  clip-template      Draft a template on Ghost from a recipe page -url")
	fmt.Println("  regenerate-plans   Re-score every user and regenerate this week's plan")
	fmt.Println("  publish-plan       Post a user's current plan to Ghost as a draft")
	fmt.Println("  metrics            Show daily plan generation stats")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
