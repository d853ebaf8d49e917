package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reoring/shapegen/internal/config"
	"github.com/reoring/shapegen/internal/gen"
	"github.com/reoring/shapegen/internal/ir"
)

type generateOptions struct {
	root          *rootOptions
	configPath    string
	model         string
	service       string
	pkg           string
	output        string
	target        string
	public        bool
	runtimeImport string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{root: root}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go source for a model",
		Long: `Generate Go source for a model.

Settings come from shapegen.yaml when present; flags override them.`,
		Example: `  # Use ./shapegen.yaml
  shapegen generate

  # Without a config file
  shapegen generate --model model.json --package things --output ./things --target non-validating`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.DefaultFileName, "Config file")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Model document (JSON or YAML)")
	cmd.Flags().StringVar(&opts.service, "service", "", "Service shape id used for renames (defaults to the only service)")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "Package name of generated files")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory")
	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "validating or non-validating")
	cmd.Flags().BoolVar(&opts.public, "public-constrained-types", true, "Expose constrained wrappers on data types")
	cmd.Flags().StringVar(&opts.runtimeImport, "runtime-import", "", "Import path of the runtime package")

	return cmd
}

// resolveConfig loads the config file, if any, and applies flags set on cmd.
func resolveConfig(cmd *cobra.Command, opts *generateOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = &config.Config{Version: config.CurrentConfigVersion}
	default:
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model = opts.model
	}
	if flags.Changed("service") {
		cfg.Service = opts.service
	}
	if flags.Changed("package") {
		cfg.Package = opts.pkg
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("target") {
		cfg.Target = opts.target
	}
	if flags.Changed("public-constrained-types") {
		public := opts.public
		cfg.PublicConstrainedTypes = &public
	}
	if flags.Changed("runtime-import") {
		cfg.RuntimeImport = opts.runtimeImport
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadModel(path, service string) (*ir.Model, error) {
	m, err := ir.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if service == "" {
		service = soleService(m)
	}
	if service != "" {
		if err := m.SetService(ir.ShapeID(service)); err != nil {
			return nil, err
		}
	}
	ir.Normalize(m)
	return m, nil
}

// soleService returns the id of the model's service when there is exactly
// one.
func soleService(m *ir.Model) string {
	var ids []ir.ShapeID
	for s := range m.Shapes() {
		if _, ok := s.(*ir.Service); ok {
			ids = append(ids, s.ID())
		}
	}
	if len(ids) != 1 {
		return ""
	}
	return string(ids[0])
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	log := opts.root.logger(cmd.ErrOrStderr())
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	m, err := loadModel(cfg.ModelPath(), cfg.Service)
	if err != nil {
		return err
	}

	mode := cfg.Mode()
	files, err := gen.Generate(m, gen.Options{
		Mode:          mode,
		Package:       cfg.Package,
		RuntimeImport: cfg.RuntimeImport,
		Source:        filepath.Base(cfg.Model),
		Logger:        log,
	})
	if err != nil {
		return err
	}

	out := cfg.OutputDir()
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	for _, f := range files {
		src, err := gen.RenderFile(f)
		if err != nil {
			return fmt.Errorf("render %s: %w", f.Name, err)
		}
		path := filepath.Join(out, f.Name)
		if err := os.WriteFile(path, src, 0o644); err != nil { //nolint:gosec // generated source is world readable
			return err
		}
		log.Debug("wrote file", "path", path, "bytes", len(src))
	}
	log.Info("generated", "package", cfg.Package, "target", mode.Target, "public", mode.PublicConstrainedTypes, "files", len(files), "output", out)
	return nil
}
