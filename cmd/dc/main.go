package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"damagecontrol/internal/app"
	"damagecontrol/internal/config"
	"damagecontrol/internal/db"
	"damagecontrol/internal/domain"
	"damagecontrol/internal/engine"
	"damagecontrol/internal/logging"
	"damagecontrol/internal/migrate"
	"damagecontrol/internal/repo"
	"damagecontrol/internal/report"
)

var rootCmd = &cobra.Command{
	Use:   "dc",
	Short: "Ship system damage control",
	Long: `dc simulates damage to ship systems and composes the step-by-step repair reports crews follow.
- Scenario: scenario.yml describes one simulator: its stations, decks, rooms, crew, inventory and systems.
- Break: a system becomes damaged (or destroyed) with a short immediate report.
- Report: a numbered list of repair steps, chosen from what the simulator can actually do.
- Repair: the system returns to its undamaged baseline.
- Script: dc run applies a list of operations and prints the event log.
Nothing is written to disk except scenario.yml; every command starts from the scenario.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "directory holding scenario.yml")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier")
	rootCmd.PersistentFlags().Int("steps", 5, "target number of report steps")
	rootCmd.PersistentFlags().Int64("seed", 0, "random seed (0 uses the clock)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	for _, name := range []string{"workspace", "json", "actor-id", "steps", "seed", "log-level", "log-format"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func registerCommands() {
	rootCmd.AddCommand(scenarioCmd())
	rootCmd.AddCommand(systemCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(breakCmd())
	rootCmd.AddCommand(runCmd())
}

func scenarioCmd() *cobra.Command {
	sc := &cobra.Command{Use: "scenario", Short: "Manage the scenario file"}
	sc.AddCommand(scenarioInitCmd())
	sc.AddCommand(scenarioValidateCmd())
	sc.AddCommand(scenarioShowCmd())
	return sc
}

func scenarioInitCmd() *cobra.Command {
	var simulatorID string
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default scenario.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault(simulatorID)), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&simulatorID, "simulator", "voyager", "simulator id")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing scenario")
	return cmd
}

func scenarioValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate scenario.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.Load(viper.GetString("workspace"))
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": errString(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("scenario OK")
			return nil
		},
	}
}

func scenarioShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the loaded simulator and the components its stations carry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				sims, err := e.Repo.ListSimulators(ctx)
				if err != nil {
					return err
				}
				type row struct {
					ID         string   `json:"id"`
					Name       string   `json:"name"`
					Stations   int      `json:"stations"`
					Components []string `json:"components"`
				}
				rows := make([]row, 0, len(sims))
				for _, sim := range sims {
					rows = append(rows, row{sim.ID, sim.Name, len(sim.Stations), report.Snapshot{Simulator: sim}.Components()})
				}
				if viper.GetBool("json") {
					return printJSON(rows)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Stations", "Components"})
				for _, r := range rows {
					tw.AppendRow(table.Row{r.ID, r.Name, r.Stations, strings.Join(r.Components, ", ")})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func systemCmd() *cobra.Command {
	sys := &cobra.Command{Use: "system", Short: "Inspect systems"}
	sys.AddCommand(systemListCmd())
	sys.AddCommand(systemShowCmd())
	return sys
}

func systemListCmd() *cobra.Command {
	var class string
	var damaged bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List systems",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				systems, err := e.ListSystems(ctx, repo.SystemFilters{SimulatorID: e.Config.Simulator.ID, Class: class, DamagedOnly: damaged})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(systems)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Class", "Power", "Damaged", "Locations"})
				for _, s := range systems {
					tw.AppendRow(table.Row{s.ID, s.DisplayName(), s.Class, s.Power.Power, s.Damage.Damaged, strings.Join(s.Locations, ",")})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "class filter")
	cmd.Flags().BoolVar(&damaged, "damaged", false, "only damaged systems")
	return cmd
}

func systemShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <system>",
		Short: "Show a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				sys, err := e.FindSystem(ctx, e.Config.Simulator.ID, args[0])
				if err != nil {
					return err
				}
				return printJSON(sys)
			})
		},
	}
}

func reportCmd() *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "report <system>",
		Short: "Compose a damage report for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				sys, err := e.FindSystem(ctx, e.Config.Simulator.ID, args[0])
				if err != nil {
					return err
				}
				res, err := e.GenerateDamageReport(ctx, sys.ID, engine.ReportOptions{ReactivationCode: code})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					names := make([]string, 0, len(res.Rendered))
					for _, r := range res.Rendered {
						names = append(names, string(r.Step.Name()))
					}
					return printJSON(map[string]any{"location": res.Location, "steps": names, "text": res.Text})
				}
				fmt.Print(res.Text)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "reactivation code shown in the last step")
	return cmd
}

func breakCmd() *cobra.Command {
	var opts engine.BreakOptions
	cmd := &cobra.Command{
		Use:   "break <system>",
		Short: "Damage a system and show its immediate report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				sys, err := e.FindSystem(ctx, e.Config.Simulator.ID, args[0])
				if err != nil {
					return err
				}
				sys, err = e.BreakSystem(ctx, sys.ID, opts, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printDamage(sys.Damage)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Report, "report", "#SYSTEMNAME on #SIM is damaged at #LOCATION.", "immediate report text")
	cmd.Flags().BoolVar(&opts.Destroyed, "destroyed", false, "destroy the system")
	cmd.Flags().StringVar(&opts.Which, "which", domain.DefaultWhich, "damage profile")
	return cmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.yml>",
		Short: "Run an operation script and print the event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := app.ScriptFromFile(args[0])
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				runErr := app.RunScript(ctx, e, e.Config.Simulator.ID, script)
				evts, err := e.Repo.EventLog(ctx, repo.EventFilters{SimulatorID: e.Config.Simulator.ID})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					if err := printJSON(evts); err != nil {
						return err
					}
					return runErr
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"#", "Type", "Entity", "ID", "Actor", "Payload"})
				for _, ev := range evts {
					tw.AppendRow(table.Row{ev.ID, ev.Type, ev.EntityKind, ev.EntityID, ev.ActorID, ev.Payload})
				}
				tw.Render()
				return runErr
			})
		},
	}
}

// --- helpers ---

// withEngine opens a fresh in-memory store, loads the workspace scenario
// into it and hands the engine to fn.
func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	settings, err := config.LoadSettings(viper.GetViper())
	if err != nil {
		return err
	}
	log := logging.New(settings.LogLevel, settings.LogFormat)
	cfg, err := config.Load(viper.GetString("workspace"))
	if err != nil {
		return err
	}
	conn, err := db.Open(db.Config{Name: "dc-" + uuid.NewString()})
	if err != nil {
		return err
	}
	defer conn.Close()
	version, err := migrate.Migrate(ctx, conn)
	if err != nil {
		return err
	}
	e := engine.New(conn, cfg, settings, log)
	systems, err := app.LoadScenario(ctx, e.Repo, e.Events, cfg, viper.GetString("actor-id"))
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"simulator_id":   cfg.Simulator.ID,
		"systems":        len(systems),
		"schema_version": version,
	}).Debug("scenario loaded")
	return fn(ctx, e)
}

func printDamage(d domain.Damage) error {
	if viper.GetBool("json") {
		return printJSON(d)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRows([]table.Row{
		{"System", d.SystemID},
		{"Damaged", d.Damaged},
		{"Destroyed", d.Destroyed},
		{"Which", d.Which},
		{"Requested", d.Requested},
		{"Current step", d.CurrentStep},
		{"Reactivation code", deref(d.ReactivationCode)},
		{"Requested by", deref(d.ReactivationRequester)},
		{"Exocomp parts", strings.Join(d.ExocompParts, ", ")},
		{"Report", deref(d.Report)},
	})
	tw.Render()
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
