// Command gravbody queries the ephemerides and the gravitational pull of the bodies
// declared in a TOML catalog.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	bodies "github.com/tobspm/TS-v1-1"
	"github.com/tobspm/TS-v1-1/vsop87"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// catalog is everything a subcommand needs once the configuration is read.
type catalog struct {
	conf     bodies.Config
	logger   kitlog.Logger
	registry *prometheus.Registry
	bodies   []*bodies.CelestialBody
}

func newRootCmd() *cobra.Command {
	// Flags are not bound to the environment: GRAVBODY_CONFIG names the
	// configuration directory, not the file given by --config.
	flags := viper.New()

	root := &cobra.Command{
		Use:   "gravbody",
		Short: "Query the ephemerides and the gravitational pull of celestial bodies",
		Long: `gravbody reads a TOML catalog of bodies and answers ephemeris and
acceleration queries on them.

Known bodies are resolved from the VSOP87 theory (epochs are Julian
Ephemeris Dates; RFC3339 dates are converted to UTC Julian dates without
ΔT); time-series bodies interpolate a recorded trajectory file of
"epoch x y z vx vy vz" records.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "catalog TOML file (defaults to $"+bodies.ConfigEnv+"/conf.toml)")
	root.PersistentFlags().Bool("metrics", false, "log the Prometheus metrics gathered during the command")
	if err := flags.BindPFlags(root.PersistentFlags()); err != nil {
		panic(err)
	}
	root.AddCommand(newAccelCmd(flags), newEphemCmd(flags), newSampleCmd(flags))
	return root
}

func loadCatalog(flags *viper.Viper) (*catalog, error) {
	var (
		conf bodies.Config
		err  error
	)
	if path := flags.GetString("config"); path != "" {
		conf, err = bodies.LoadConfig(path)
	} else {
		conf, err = bodies.LoadConfigFromEnv()
	}
	if err != nil {
		return nil, err
	}
	logger := bodies.NewLogger(os.Stderr, conf.Log)
	registry := prometheus.NewRegistry()
	metrics, err := bodies.NewMetrics(registry)
	if err != nil {
		return nil, err
	}
	loader := bodies.NewTrajectoryLoader(conf.TrajectoryDir, logger, metrics)
	bs, err := bodies.BuildBodies(conf, vsop87.NewResolver(conf.VSOP87Dir), loader, logger)
	if err != nil {
		return nil, err
	}
	return &catalog{conf: conf, logger: logger, registry: registry, bodies: bs}, nil
}

// done logs the gathered metrics if requested.
func (c *catalog) done(flags *viper.Viper) {
	if !flags.GetBool("metrics") {
		return
	}
	families, err := c.registry.Gather()
	if err != nil {
		level.Warn(c.logger).Log("subsys", "metrics", "err", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			keyvals := []interface{}{"subsys", "metrics", "name", mf.GetName()}
			for _, lbl := range m.GetLabel() {
				keyvals = append(keyvals, lbl.GetName(), lbl.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				keyvals = append(keyvals, "value", m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				keyvals = append(keyvals, "value", m.GetGauge().GetValue())
			}
			level.Info(c.logger).Log(keyvals...)
		}
	}
}

func newAccelCmd(flags *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accel",
		Short: "Print the relative position and acceleration intensity of every body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			epoch, err := parseEpoch(flags.GetString("epoch"))
			if err != nil {
				return err
			}
			sc, err := parseVec(flags.GetString("position"))
			if err != nil {
				return err
			}
			cat, err := loadCatalog(flags)
			if err != nil {
				return err
			}
			defer cat.done(flags)
			failed := 0
			out := cmd.OutOrStdout()
			for _, b := range cat.bodies {
				rel, err := b.RelativePosition(epoch, sc)
				if err != nil {
					level.Error(cat.logger).Log("subsys", "accel", "body", b.Name, "epoch", epoch, "err", err)
					failed++
					continue
				}
				acc, err := b.AccelerationIntensity(epoch, sc)
				if err != nil {
					level.Error(cat.logger).Log("subsys", "accel", "body", b.Name, "epoch", epoch, "err", err)
					failed++
					continue
				}
				fmt.Fprintf(out, "%-12s r = %s m\t|a| = %.9g m/s^2\n", b.Name, rel, acc)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d bodies failed", failed, len(cat.bodies))
			}
			return nil
		},
	}
	cmd.Flags().String("epoch", "", "query epoch (number, or RFC3339 date converted to a UTC Julian date)")
	cmd.Flags().String("position", "0,0,0", "spacecraft position x,y,z in meters")
	return cmd
}

func newEphemCmd(flags *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ephem",
		Short: "Print the position and velocity of a body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			epoch, err := parseEpoch(flags.GetString("epoch"))
			if err != nil {
				return err
			}
			cat, err := loadCatalog(flags)
			if err != nil {
				return err
			}
			defer cat.done(flags)
			b, err := bodies.Find(cat.bodies, flags.GetString("body"))
			if err != nil {
				return err
			}
			R, V, err := b.Ephemeris(epoch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s @ %v\nR = %s m\nV = %s m/s\n", b, epoch, R, V)
			return nil
		},
	}
	cmd.Flags().String("body", "", "body name")
	cmd.Flags().String("epoch", "", "query epoch (number, or RFC3339 date converted to a UTC Julian date)")
	return cmd
}

func newSampleCmd(flags *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Tabulate the ephemeris of a body into a trajectory file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			from, err := parseEpoch(flags.GetString("from"))
			if err != nil {
				return err
			}
			to, err := parseEpoch(flags.GetString("to"))
			if err != nil {
				return err
			}
			cat, err := loadCatalog(flags)
			if err != nil {
				return err
			}
			defer cat.done(flags)
			b, err := bodies.Find(cat.bodies, flags.GetString("body"))
			if err != nil {
				return err
			}
			samples, err := bodies.SampleEphemeris(b, from, to, flags.GetFloat64("step"))
			if err != nil {
				return err
			}
			path := flags.GetString("out")
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := bodies.WriteTrajectory(f, samples); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			level.Info(cat.logger).Log("subsys", "sample", "body", b.Name, "samples", len(samples), "file", path)
			return nil
		},
	}
	cmd.Flags().String("body", "", "body name")
	cmd.Flags().String("from", "", "first epoch")
	cmd.Flags().String("to", "", "last epoch")
	cmd.Flags().Float64("step", 1, "epoch step")
	cmd.Flags().String("out", "trajectory.traj", "output trajectory file")
	return cmd
}

// parseEpoch reads an epoch as a number, or as an RFC3339 date converted to a UTC
// Julian date.
func parseEpoch(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("no epoch provided")
	}
	if epoch, err := strconv.ParseFloat(s, 64); err == nil {
		return epoch, nil
	}
	dt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("could not understand epoch `%s`: neither a number nor an RFC3339 date", s)
	}
	return vsop87.EpochFromTime(dt.UTC()), nil
}

// parseVec reads a comma separated x,y,z vector.
func parseVec(s string) (v bodies.Vec3, err error) {
	components := strings.Split(s, ",")
	if len(components) != 3 {
		return v, fmt.Errorf("could not understand vector `%s`: expected x,y,z", s)
	}
	for i, c := range components {
		if v[i], err = strconv.ParseFloat(strings.TrimSpace(c), 64); err != nil {
			return v, fmt.Errorf("could not understand vector `%s`: %w", s, err)
		}
	}
	return v, nil
}
