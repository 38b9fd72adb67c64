package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/meikuraledutech/specgraph"
	"github.com/meikuraledutech/specgraph/jsonfile"
	"github.com/meikuraledutech/specgraph/postgres"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// .env is optional; the environment wins either way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not load .env", "error", err)
	}

	store, cleanup, err := openStore(logger)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	projectRoot := os.Getenv("PROJECT_ROOT")
	if projectRoot == "" {
		projectRoot = "."
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	app := fiber.New()

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", func(c fiber.Ctx) error {
		if err := store.CreateSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schema", func(c fiber.Ctx) error {
		if err := store.DropSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema dropped"})
	})

	// ── Spec records ──────────────────────────────────────────────────
	app.Put("/projects/:project/specs", func(c fiber.Ctx) error {
		var features []specgraph.Feature
		if err := c.Bind().JSON(&features); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		if err := store.SaveSet(c.Context(), c.Params("project"), features); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"saved": len(features)})
	})

	app.Get("/projects/:project/specs", func(c fiber.Ctx) error {
		features, err := store.ListFeatures(c.Context(), c.Params("project"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(features)
	})

	app.Post("/projects/:project/specs", func(c fiber.Ctx) error {
		var f specgraph.Feature
		if err := c.Bind().JSON(&f); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		id, err := store.AddFeature(c.Context(), c.Params("project"), &f)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(fiber.Map{"id": id})
	})

	app.Delete("/projects/:project/specs", func(c fiber.Ctx) error {
		if err := store.DeleteSet(c.Context(), c.Params("project")); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	app.Get("/specs/:id", func(c fiber.Ctx) error {
		f, err := store.GetFeature(c.Context(), c.Params("id"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if f == nil {
			return c.Status(404).JSON(fiber.Map{"error": "feature not found"})
		}
		return c.JSON(f)
	})

	app.Put("/specs/:id", func(c fiber.Ctx) error {
		var f specgraph.Feature
		if err := c.Bind().JSON(&f); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		f.ID = c.Params("id")
		err := store.UpdateFeature(c.Context(), &f)
		if errors.Is(err, specgraph.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "feature not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	app.Delete("/specs/:id", func(c fiber.Ctx) error {
		if err := store.DeleteFeature(c.Context(), c.Params("id")); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	// ── Graph engine ──────────────────────────────────────────────────
	app.Get("/projects/:project/graph", func(c fiber.Ctx) error {
		g, err := loadGraph(c.Context(), store, c.Params("project"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(g)
	})

	app.Get("/projects/:project/tree", func(c fiber.Ctx) error {
		g, err := loadGraph(c.Context(), store, c.Params("project"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set("Content-Type", "text/plain; charset=utf-8")
		return c.SendString(specgraph.RenderTree(g))
	})

	app.Get("/projects/:project/validate", func(c fiber.Ctx) error {
		features, err := store.LoadSet(c.Context(), c.Params("project"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		strict := c.Query("strict") == "true" || c.Query("strict") == "1"

		v := specgraph.Validator{Strict: strict}
		report := v.Validate(features)
		report.Merge(specgraph.GraphFindings(specgraph.BuildGraph(features), strict))
		return c.JSON(fiber.Map{
			"isValid":  report.IsValid(),
			"errors":   report.Errors,
			"warnings": report.Warnings,
		})
	})

	app.Get("/projects/:project/coderefs", func(c fiber.Ctx) error {
		features, err := store.LoadSet(c.Context(), c.Params("project"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(specgraph.CheckCodeRefs(features, projectRoot))
	})

	app.Get("/projects/:project/impact/:id", func(c fiber.Ctx) error {
		depth := 3
		if raw := c.Query("depth"); raw != "" {
			d, err := strconv.Atoi(raw)
			if err != nil || d < 1 {
				return c.Status(400).JSON(fiber.Map{"error": "depth must be a positive integer"})
			}
			depth = d
		}
		g, err := loadGraph(c.Context(), store, c.Params("project"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		result, err := specgraph.AnalyzeImpact(g, c.Params("id"), depth)
		if errors.Is(err, specgraph.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(result)
	})

	app.Post("/projects/:project/propagate/:id", func(c fiber.Ctx) error {
		status, ok, err := bindStatus(c)
		if err != nil || !ok {
			return c.Status(400).JSON(fiber.Map{"error": "body must carry a valid status"})
		}
		g, err := loadGraph(c.Context(), store, c.Params("project"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		changes, err := specgraph.PropagateStatus(g, c.Params("id"), status, nil)
		if errors.Is(err, specgraph.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"changes": changes, "applied": false})
	})

	app.Post("/projects/:project/propagate/:id/apply", func(c fiber.Ctx) error {
		status, ok, err := bindStatus(c)
		if err != nil || !ok {
			return c.Status(400).JSON(fiber.Map{"error": "body must carry a valid status"})
		}
		project := c.Params("project")
		features, err := store.LoadSet(c.Context(), project)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		g := specgraph.BuildGraph(features)
		changes, err := specgraph.PropagateStatus(g, c.Params("id"), status, nil)
		if errors.Is(err, specgraph.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "node not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}

		applyChanges(features, c.Params("id"), status, changes)
		if err := store.SaveSet(c.Context(), project, features); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		logger.Info("propagation applied",
			"project", project, "source", c.Params("id"),
			"status", string(status), "changes", len(changes))
		return c.JSON(fiber.Map{"changes": changes, "applied": true})
	})

	logger.Info("listening", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// openStore picks the backend from the environment: DATABASE_URL means
// postgres, otherwise SPEC_DIR (default ./specs) means JSON files on disk.
func openStore(logger *slog.Logger) (specgraph.Store, func(), error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(context.Background(), dbURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres store")
		return postgres.New(pool), pool.Close, nil
	}

	dir := os.Getenv("SPEC_DIR")
	if dir == "" {
		dir = "./specs"
	}
	logger.Info("using jsonfile store", "dir", dir)
	return jsonfile.New(dir), func() {}, nil
}

func loadGraph(ctx context.Context, store specgraph.Store, project string) (*specgraph.Graph, error) {
	features, err := store.LoadSet(ctx, project)
	if err != nil {
		return nil, err
	}
	return specgraph.BuildGraph(features), nil
}

func bindStatus(c fiber.Ctx) (specgraph.Status, bool, error) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return "", false, err
	}
	status, err := specgraph.ParseStatus(body.Status)
	if err != nil {
		return "", false, nil
	}
	return status, true, nil
}

// applyChanges rewrites the statuses a change-set names, plus the source
// node itself, on the in-memory record set before it is saved back.
func applyChanges(features []specgraph.Feature, sourceID string, status specgraph.Status, changes []specgraph.StatusChange) {
	target := make(map[string]specgraph.Status, len(changes)+1)
	target[sourceID] = status
	for _, ch := range changes {
		target[ch.ID] = ch.NewStatus
	}
	now := time.Now().UTC()
	for i := range features {
		f := &features[i]
		touched := false
		if s, ok := target[f.ID]; ok {
			f.Status = s
			touched = true
		}
		for j := range f.Conditions {
			c := &f.Conditions[j]
			if s, ok := target[c.ID]; ok {
				c.Status = s
				touched = true
			}
		}
		if touched {
			f.UpdatedAt = now
		}
	}
}
