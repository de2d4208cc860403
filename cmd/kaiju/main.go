package main

import (
	"os"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	config   string
	seed     uint64
	logLevel string
}

func main() {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:          "kaiju",
		Short:        "Procedural city you can stomp flat",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.config, "config", "c", "", "YAML config file (defaults when empty)")
	rootCmd.PersistentFlags().Uint64Var(&g.seed, "seed", 0, "override the config seed (0 keeps it)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(generateCmd(&g))
	rootCmd.AddCommand(validateCmd(&g))
	rootCmd.AddCommand(budgetCmd(&g))
	rootCmd.AddCommand(runCmd(&g))
	rootCmd.AddCommand(serveCmd(&g))
	rootCmd.AddCommand(watchCmd(&g))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd(g *globalFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Lay out a ring city and write its building records",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGenerate(g, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "city.yaml", "output file")
	return cmd
}

func validateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [city-file]",
		Short: "Check building records and config without building geometry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(g, args[0])
		},
	}
}

func budgetCmd(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "budget [city-file]",
		Short: "Build the city and report its draw-call and triangle budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBudget(g, args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the budget as JSON")
	return cmd
}

func runCmd(g *globalFlags) *cobra.Command {
	var (
		script string
		ticks  int
		dt     float64
	)

	cmd := &cobra.Command{
		Use:   "run [city-file]",
		Short: "Play a scripted rampage headless and print the summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRampage(g, args[0], script, ticks, dt)
		},
	}
	cmd.Flags().StringVarP(&script, "script", "s", "", "YAML rampage script (tours every building when empty)")
	cmd.Flags().IntVarP(&ticks, "ticks", "t", 3600, "maximum number of ticks")
	cmd.Flags().Float64Var(&dt, "dt", 1.0/60, "seconds per tick")
	return cmd
}

func serveCmd(g *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [city-file]",
		Short: "Run the rampage behind an HTTP and websocket frame server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runServe(g, args[0], port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (config value when 0)")
	return cmd
}

func watchCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [city-file]",
		Short: "Stomp through the city in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runWatch(g, args[0])
		},
	}
}
