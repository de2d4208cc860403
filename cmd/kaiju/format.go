package main

import (
	"fmt"
	"io"

	"github.com/IrdiZ/kaiju/pkg/analytics"
	"github.com/IrdiZ/kaiju/pkg/cost"
	"github.com/IrdiZ/kaiju/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(e)
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResult(w)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Level, res.Message)
	if res.Path != "" {
		if res.ActualValue != nil {
			fmt.Printf("    -> %s = %v\n", res.Path, res.ActualValue)
		} else {
			fmt.Printf("    -> %s\n", res.Path)
		}
	}
	if res.Expected != "" {
		fmt.Printf("    expected: %s\n", res.Expected)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("    * %s\n", s)
	}
}

func printBudget(b *analytics.Budget) {
	calls, tris := b.Utilization()

	fmt.Println("Render Budget")
	fmt.Println("=============")
	fmt.Println()
	fmt.Printf("  Buildings:         %d (%d standing, %d destroyed)\n", b.Buildings, b.Standing, b.Destroyed)
	fmt.Printf("  Draw calls:        %d / %d (%.0f%%)\n", b.DrawCalls, b.MaxDrawCalls, calls*100)
	fmt.Printf("  Triangles:         %s / %s (%.0f%%)\n", formatCount(float64(b.Triangles)), formatCount(float64(b.MaxTriangles)), tris*100)
	fmt.Printf("  Batches:           %d\n", b.Batches)
	fmt.Printf("  Landmark surfaces: %d\n", b.LandmarkSurfaces)
	fmt.Println()

	fmt.Printf("%-22s %10s %12s %10s\n", "Material", "Calls", "Triangles", "Buildings")
	fmt.Printf("%-22s %10s %12s %10s\n", "----------------------", "----------", "------------", "----------")
	for _, m := range b.Materials {
		fmt.Printf("%-22s %10d %12s %10d\n", m.Material, m.DrawCalls, formatCount(float64(m.Triangles)), m.Buildings)
	}
	fmt.Println()

	fmt.Printf("%-14s %10s %10s %10s\n", "Style", "Buildings", "Standing", "Landmarks")
	fmt.Printf("%-14s %10s %10s %10s\n", "--------------", "----------", "----------", "----------")
	for _, s := range b.Styles {
		fmt.Printf("%-14s %10d %10d %10d\n", s.Style, s.Buildings, s.Standing, s.Landmarks)
	}
}

func printDamageReport(w io.Writer, r *cost.Report) {
	if r == nil || len(r.Items) == 0 {
		fmt.Fprintln(w, "Nothing was destroyed.")
		return
	}

	fmt.Fprintln(w, "Damage Report")
	fmt.Fprintln(w, "=============")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-6s %-28s %-12s %14s %14s %14s %14s\n",
		"#", "Building", "Style", "Structure", "Contents", "Cleanup", "Total")
	fmt.Fprintf(w, "%-6s %-28s %-12s %14s %14s %14s %14s\n",
		"------", "----------------------------", "------------", "--------------", "--------------", "--------------", "--------------")
	for _, it := range r.Items {
		name := it.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%-6d %-28s %-12s %14s %14s %14s %14s\n",
			it.Building, name, it.Style,
			formatMoney(it.Damage.Structure), formatMoney(it.Damage.Contents),
			formatMoney(it.Damage.Cleanup), formatMoney(it.Damage.Total))
	}
	fmt.Fprintf(w, "%-6s %-28s %-12s %14s %14s %14s %14s\n", "TOTAL", "", "",
		formatMoney(r.Total.Structure), formatMoney(r.Total.Contents),
		formatMoney(r.Total.Cleanup), formatMoney(r.Total.Total))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, "-------")
	fmt.Fprintf(w, "  Buildings destroyed:    %d (%d landmarks)\n", r.Summary.Destroyed, r.Summary.Landmarks)
	fmt.Fprintf(w, "  Floor area lost:        %s m2\n", formatCount(r.Summary.FloorArea))
	fmt.Fprintf(w, "  Annual rebuild payment: $%s\n", formatMoney(r.Summary.AnnualRebuildPayment))
}

func formatMoney(v float64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("%.2fB", v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.0fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}

// formatCount is formatMoney without the billions tier.
func formatCount(v float64) string {
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.1fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}
