package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/km-arc/laravel-di/framework/app"
	"github.com/km-arc/laravel-di/framework/container"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:          "laravel-di",
		Short:        "Resolve and serve a demo dependency graph",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env", nil, ".env files to load (default .env)")

	boot := func() *app.Application {
		application := app.New(envFiles...)
		registerDemo(application)
		return application
	}

	root.AddCommand(newServeCmd(boot), newResolveCmd(boot), newTypesCmd(boot))
	return root
}

func newServeCmd(boot func() *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return boot().Run(ctx)
		},
	}
}

func newResolveCmd(boot func() *app.Application) *cobra.Command {
	var (
		provider string
		params   []string
		direct   bool
	)
	cmd := &cobra.Command{
		Use:   "resolve <type>",
		Short: "Resolve a type and print the instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := boot().Container
			if provider != "" {
				view = view.ForProvider(provider)
			}
			overrides, err := parseParams(params)
			if err != nil {
				return err
			}
			instance, ok := view.Resolve(args[0], overrides, !direct)
			if !ok {
				return fmt.Errorf("no instance of [%s]", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %+v\n", args[0], instance)
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "provider name placed in the resolution context")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "manual parameter as name=value (repeatable)")
	cmd.Flags().BoolVar(&direct, "direct", false, "construct directly, bypassing providers")
	return cmd
}

func newTypesCmd(boot func() *app.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List defined types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range boot().Types.Types() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}
}

// parseParams turns name=value flags into manual overrides.
func parseParams(raw []string) (container.Params, error) {
	params := make(container.Params, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, want name=value", kv)
		}
		if n, err := strconv.Atoi(value); err == nil {
			params[name] = n
			continue
		}
		params[name] = value
	}
	return params, nil
}
