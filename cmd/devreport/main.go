package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/devreport/internal/assess"
	"github.com/pavelanni/devreport/internal/handler"
	appI18n "github.com/pavelanni/devreport/internal/i18n"
	"github.com/pavelanni/devreport/internal/instrument"
	"github.com/pavelanni/devreport/internal/llm"
	"github.com/pavelanni/devreport/internal/metrics"
	"github.com/pavelanni/devreport/internal/model"
	"github.com/pavelanni/devreport/internal/narrative"
	"github.com/pavelanni/devreport/internal/store"
)

func main() {
	// A missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "devreport",
		Short: "Child development assessment reports",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd(), instrumentsCmd(), reportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("db", "devreport.db", "SQLite database path")
	f.StringSlice("instruments", nil, "Extra instrument JSON files (repeatable)")
	f.String("school", "", "School name printed on reports")
	f.String("logo", "", "PNG or JPEG logo placed on printable reports")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("student", "", "Filter by student name")
	f.String("evaluator", "", "Filter by evaluator")
	f.String("class", "", "Filter by class")
	f.String("period", "", "Filter by period")
	f.String("stage", "", "Filter by stage")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP assessment server",
		RunE:  runServe,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("llm-url", "", "OpenAI-compatible API base URL (empty for the OpenAI default)")
	f.String("llm-key", "", "API key for the LLM (or set OPENAI_API_KEY); empty uses fixed texts")
	f.String("llm-model", llm.DefaultModel, "LLM model name")
	f.StringP("lang", "l", "en", "Default UI and narrative language (en, pt-BR)")
	f.String("export-dir", "", "Directory where saved reports are also written")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /school)")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.String("admin-password", "", "Initial admin password (or set DEVREPORT_ADMIN_PASSWORD)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored assessments as JSON",
		RunE:  runExport,
	}
	addCommonFlags(cmd)
	addFilterFlags(cmd)
	cmd.Flags().StringP("output", "o", "-", "Output file path (- for stdout)")
	return cmd
}

func instrumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instruments",
		Short: "List the registered instruments",
		RunE:  runInstruments,
	}
	f := cmd.Flags()
	f.StringSlice("instruments", nil, "Extra instrument JSON files (repeatable)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the report files of one stored assessment",
		RunE:  runReport,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.Int64("id", 0, "Record id (required)")
	f.StringP("out", "o", ".", "Output directory")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("DEVREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("devreport")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/devreport")
	v.AddConfigPath("/etc/devreport")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// openService opens the database and builds the pipeline with the given
// narrative writer.
func openService(v *viper.Viper, w narrative.Writer, m *metrics.Metrics) (*assess.Service, *store.Store, error) {
	reg, err := instrument.Load(v.GetStringSlice("instruments")...)
	if err != nil {
		return nil, nil, fmt.Errorf("load instruments: %w", err)
	}
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	svc := assess.New(db, reg, w, m, assess.Config{
		School:    v.GetString("school"),
		LogoPath:  v.GetString("logo"),
		ExportDir: v.GetString("export-dir"),
		Language:  v.GetString("lang"),
	})
	return svc, db, nil
}

// narrativeWriter picks the external strategy when an API key is configured
// and the endpoint answers, the deterministic one otherwise.
func narrativeWriter(v *viper.Viper, m *metrics.Metrics) narrative.Writer {
	key := v.GetString("llm-key")
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		slog.Info("no LLM key configured, using deterministic texts")
		return narrative.New(nil, false, narrative.WithMetrics(m))
	}

	client := llm.New(v.GetString("llm-url"), key, v.GetString("llm-model"))
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		slog.Warn("LLM health check failed, using deterministic texts", "error", err)
		return narrative.New(nil, false, narrative.WithMetrics(m))
	}
	slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", client.Model())
	return narrative.New(client, true, narrative.WithMetrics(m))
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	m := metrics.New()
	svc, db, err := openService(v, narrativeWriter(v, m), m)
	if err != nil {
		return err
	}
	defer db.Close()

	// Seed default admin user if no users exist.
	if err := seedAdmin(db, v.GetString("admin-password")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// Normalize base path.
	basePath := strings.TrimRight(v.GetString("base-path"), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	cfg := model.AppConfig{
		School:        v.GetString("school"),
		LogoPath:      v.GetString("logo"),
		ExportDir:     v.GetString("export-dir"),
		Lang:          lang,
		BasePath:      basePath,
		SecureCookies: v.GetBool("secure-cookies"),
	}
	h := handler.New(svc, db, m, cfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			sub.Use(h.BasePathMiddleware)
			h.Routes(sub)
		})
		r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath+"/", http.StatusMovedPermanently)
		})
	} else {
		r.Use(h.BasePathMiddleware)
		h.Routes(r)
	}

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"strategy", svc.Strategy(),
		"stages", svc.Instruments().Stages(),
		"export_dir", cfg.ExportDir,
		"base_path", basePath,
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	svc, db, err := openService(v, nil, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	export, err := svc.Export(context.Background(), model.RecordFilter{
		Student:   v.GetString("student"),
		Evaluator: v.GetString("evaluator"),
		Class:     v.GetString("class"),
		Period:    v.GetString("period"),
		Stage:     v.GetString("stage"),
	})
	if err != nil {
		return fmt.Errorf("export records: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)
	slog.Info("exported records", "count", len(export.Records), "output", outPath)
	return nil
}

func runInstruments(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	reg, err := instrument.Load(v.GetStringSlice("instruments")...)
	if err != nil {
		return fmt.Errorf("load instruments: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, stage := range reg.Stages() {
		in, err := reg.Lookup(stage)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\t%d items\n", in.ID, in.Name, in.ItemCount())
		for _, d := range in.Dimensions {
			fmt.Fprintf(out, "  %s\t%s\t%d\n", d.Code, d.Name, len(d.Items))
		}
	}
	return nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	svc, db, err := openService(v, nil, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	paths, err := svc.WriteFiles(context.Background(), v.GetInt64("id"), v.GetString("out"))
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

func seedAdmin(db *store.Store, password string) error {
	ctx := context.Background()
	count, err := db.UserCount(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if password == "" {
		return fmt.Errorf("admin password is required: set --admin-password flag or DEVREPORT_ADMIN_PASSWORD env var")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = db.CreateUser(ctx, model.User{
		Username:     "admin",
		DisplayName:  "Administrator",
		PasswordHash: string(hash),
		Role:         model.UserRoleAdmin,
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	slog.Info("seeded default admin user", "username", "admin")
	return nil
}
