package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stackb/classworlds/pkg/logger"
	"github.com/stackb/classworlds/pkg/realm"
	"github.com/stackb/classworlds/pkg/realmconfig"
	"github.com/stackb/classworlds/pkg/tracing"
	"github.com/stackb/classworlds/pkg/world"
)

const envPrefix = "CLASSWORLDS"

// app is the state shared by the subcommands of one invocation.
type app struct {
	v        *viper.Viper
	logger   zerolog.Logger
	provider *tracing.Provider
	world    *world.World
	main     *realm.Realm
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           executableName,
		Short:         "Inspect and query realms of named artifacts",
		Long:          `Loads a realm descriptor (yaml, json, toml or .star) into a world and resolves artifact names through its realms.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "realm descriptor file")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("trace", "none", "span exporter (none, stdout)")

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlags(flags)

	root.AddCommand(
		newDescribeCmd(a),
		newResolveCmd(a),
		newResourcesCmd(a),
		newStrategiesCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	log, err := logger.New(cmd.ErrOrStderr(), a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.logger = log

	provider, err := tracing.NewProvider(tracing.Config{
		Exporter:    a.v.GetString("trace"),
		ServiceName: executableName,
		Writer:      cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.provider = provider

	a.world = world.New(
		world.WithLogger(a.logger),
		world.WithRealmOptions(realm.WithTracer(provider.Tracer())),
	)
	return nil
}

func (a *app) shutdown(ctx context.Context) error {
	var errs []error
	if a.world != nil {
		if err := a.world.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.provider != nil {
		if ctx == nil {
			ctx = context.Background()
		}
		if err := a.provider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// load builds the world from the configured descriptor.
func (a *app) load() error {
	filename := a.v.GetString("config")
	if filename == "" {
		return fmt.Errorf("no realm descriptor: use --config or %s_CONFIG", envPrefix)
	}
	desc, err := realmconfig.LoadFile(filename)
	if err != nil {
		return err
	}
	mainRealm, err := realmconfig.Build(desc, a.world)
	if err != nil {
		return err
	}
	a.main = mainRealm
	a.logger.Debug().Str("descriptor", filename).Int("realms", len(a.world.Realms())).Msg("world loaded")
	return nil
}

// realm loads the world and returns the realm named id, or the main realm
// when id is empty.
func (a *app) realm(id string) (*realm.Realm, error) {
	if err := a.load(); err != nil {
		return nil, err
	}
	if id != "" {
		return a.world.GetRealm(id)
	}
	if a.main == nil {
		return nil, fmt.Errorf("descriptor has no main realm: use --realm")
	}
	return a.main, nil
}
