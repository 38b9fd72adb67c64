package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/meikuraledutech/specgraph"
	"github.com/meikuraledutech/specgraph/jsonfile"
)

func main() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "specgraph-example-*")
	if err != nil {
		log.Fatalf("tempdir: %v", err)
	}
	defer os.RemoveAll(dir)

	// Wire up the file-backed implementation behind the Store interface.
	var store specgraph.Store = jsonfile.New(dir)

	if err := store.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("store ready at", dir)

	// ── Save a small spec set ─────────────────────────────────────────
	features := []specgraph.Feature{
		{
			ID:     "auth",
			Title:  "Authentication",
			Status: specgraph.StatusVerified,
			Conditions: []specgraph.Condition{
				{ID: "auth-c1", Description: "login succeeds with valid credentials", Status: specgraph.StatusVerified},
				{ID: "auth-c2", Description: "session expires after 24h", Status: specgraph.StatusActive},
			},
			CodeRefs: []string{"example/main.go#L1"},
		},
		{
			ID:           "profile",
			Title:        "User profile",
			Status:       specgraph.StatusActive,
			Parent:       "auth",
			Dependencies: []string{"auth"},
			Conditions: []specgraph.Condition{
				{ID: "profile-c1", Description: "avatar upload works", Status: specgraph.StatusDraft},
			},
		},
		{
			ID:           "billing",
			Title:        "Billing",
			Status:       specgraph.StatusDraft,
			Dependencies: []string{"auth", "missing-feature"},
			CodeRefs:     []string{"does/not/exist.go#L10"},
		},
	}

	if err := store.SaveSet(ctx, "demo", features); err != nil {
		log.Fatalf("save set: %v", err)
	}
	fmt.Printf("saved %d features\n", len(features))

	loaded, err := store.LoadSet(ctx, "demo")
	if err != nil {
		log.Fatalf("load set: %v", err)
	}

	// ── Build the graph ───────────────────────────────────────────────
	g := specgraph.BuildGraph(loaded)
	fmt.Println("\ngraph:")
	printJSON(g)

	// ── Render the tree ───────────────────────────────────────────────
	fmt.Println("\ntree:")
	fmt.Print(specgraph.RenderTree(g))

	// ── Impact of changing auth ───────────────────────────────────────
	impact, err := specgraph.AnalyzeImpact(g, "auth", 3)
	if err != nil {
		log.Fatalf("impact: %v", err)
	}
	fmt.Println("\nimpact of auth (depth 3):")
	printJSON(impact)

	// ── Dry-run propagation ───────────────────────────────────────────
	changes, err := specgraph.PropagateStatus(g, "auth", specgraph.StatusNeedsReview, nil)
	if err != nil {
		log.Fatalf("propagate: %v", err)
	}
	fmt.Println("\nchange-set for auth -> needs-review:")
	printJSON(changes)

	// ── Combined validation report ────────────────────────────────────
	v := specgraph.Validator{Strict: true}
	report := v.Validate(loaded)
	report.Merge(specgraph.GraphFindings(g, true))
	fmt.Printf("\nvalidation (strict): isValid=%v\n", report.IsValid())
	printJSON(report)

	// ── Code reference health ─────────────────────────────────────────
	refs := specgraph.CheckCodeRefs(loaded, ".")
	fmt.Println("\ncode reference health:")
	printJSON(refs)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
