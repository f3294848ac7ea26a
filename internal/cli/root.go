// Package cli implements the gptrack command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/banshee-data/gptrack/internal/config"
	"github.com/banshee-data/gptrack/internal/fsutil"
	"github.com/banshee-data/gptrack/internal/monitoring"
	"github.com/banshee-data/gptrack/internal/timeutil"
	"github.com/banshee-data/gptrack/internal/trackdat"
	"github.com/banshee-data/gptrack/internal/units"
	"github.com/banshee-data/gptrack/internal/version"
)

const envPrefix = "GPTRACK"

// maxTrackFileSize bounds reads of track files; real files are well under 100KB.
const maxTrackFileSize = 4 << 20

type globalOptions struct {
	cfgFile       string
	logLevel      string
	logFormat     string
	decoderConfig string
	units         string
	catalog       string
	headingScale  float64
	checksum      string
}

// app is the state shared by all subcommands of one invocation.
type app struct {
	fs    fsutil.FileSystem
	out   io.Writer
	v     *viper.Viper
	clock timeutil.Clock
	opts  globalOptions

	logger *zap.Logger
	cfg    *config.DecoderConfig
}

// Execute runs the gptrack command line against the real filesystem.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd(fsutil.OSFileSystem{}, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Track files and outputs go through
// fsys; command output goes to out.
func NewRootCmd(fsys fsutil.FileSystem, out io.Writer) *cobra.Command {
	a := &app{fs: fsys, out: out, v: viper.New(), clock: timeutil.RealClock{}, logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:          "gptrack",
		Short:        "Decode, inspect and catalog legacy racing simulator track files",
		Version:      version.Get().String(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	rootCmd.SetOut(out)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.opts.cfgFile, "config", "", "config file (default is $HOME/.gptrack.yaml)")
	pf.StringVar(&a.opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&a.opts.logFormat, "log-format", monitoring.FormatText, "log format: text or json")
	pf.StringVar(&a.opts.decoderConfig, "decoder-config", "", "decoder settings JSON (default: built-in defaults)")
	pf.StringVar(&a.opts.units, "units", "", "display units: "+units.GetValidUnitsString())
	pf.StringVar(&a.opts.catalog, "catalog", "", "sqlite catalog path")
	pf.Float64Var(&a.opts.headingScale, "heading-scale", 0, "radians of turn per curvature unit per metre")
	pf.StringVar(&a.opts.checksum, "checksum", "", "checksum algorithm: none, "+strings.Join(trackdat.ChecksumAlgorithmNames(), ", "))

	rootCmd.AddCommand(
		newInspectCmd(a),
		newSectionsCmd(a),
		newRacingLineCmd(a),
		newVerifyCmd(a),
		newGeometryCmd(a),
		newPlotCmd(a),
		newCatalogCmd(a),
		newFixtureCmd(a),
		newShapesCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := a.initConfig(cmd); err != nil {
		return err
	}
	l, err := monitoring.NewLogger(a.opts.logLevel, a.opts.logFormat)
	if err != nil {
		return err
	}
	a.logger = l
	monitoring.UseZap(l)
	trackdat.SetLogWriters(monitoring.StreamWriters(l))
	return a.loadDecoderConfig(cmd)
}

// initConfig reads in config file and ENV variables if set.
func (a *app) initConfig(cmd *cobra.Command) error {
	if a.opts.cfgFile != "" {
		a.v.SetConfigFile(a.opts.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".gptrack")
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.opts.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	bindFlags(cmd, a.v)
	return nil
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// --log-level is read from GPTRACK_LOG_LEVEL
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v\n", f.Name, err)
			}
		}
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not set flag value for %s: %v\n", f.Name, err)
			}
		}
	})
}

// loadDecoderConfig resolves the decoder settings: defaults or
// --decoder-config, then individual flag overrides.
func (a *app) loadDecoderConfig(cmd *cobra.Command) error {
	cfg := config.DefaultDecoderConfig()
	if a.opts.decoderConfig != "" {
		loaded, err := config.LoadDecoderConfig(a.opts.decoderConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if a.opts.units != "" {
		cfg.Units = &a.opts.units
	}
	if a.opts.catalog != "" {
		cfg.CatalogPath = &a.opts.catalog
	}
	if flags.Changed("heading-scale") {
		cfg.HeadingScale = &a.opts.headingScale
	}
	if a.opts.checksum != "" {
		cfg.ChecksumAlgorithm = &a.opts.checksum
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid decoder settings: %w", err)
	}
	a.cfg = cfg
	return nil
}

// decodeFile reads and decodes one track file with the resolved settings.
func (a *app) decodeFile(path string) (*trackdat.TrackDefinition, []byte, error) {
	raw, err := fsutil.ReadFileLimit(a.fs, path, maxTrackFileSize)
	if err != nil {
		return nil, nil, err
	}
	opts, err := a.cfg.DecodeOptions()
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, trackdat.WithName(trackName(path)))

	start := a.clock.Now()
	def, err := trackdat.Decode(raw, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Debug("decoded track",
		zap.String("path", path),
		zap.Int("bytes", len(raw)),
		zap.Int("sections", len(def.Sections)),
		zap.Duration("elapsed", a.clock.Since(start)))
	return def, raw, nil
}

func trackName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// length formats a distance in metres in the configured display units.
func (a *app) length(meters float64) string {
	u := a.cfg.GetUnits()
	return fmt.Sprintf("%.1f %s", units.ConvertLength(meters, u), u)
}
