package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nodekit-build/jsresolve/internal/classpath"
	"github.com/nodekit-build/jsresolve/internal/fs"
	"github.com/nodekit-build/jsresolve/internal/inspector"
	"github.com/nodekit-build/jsresolve/internal/logger"
	"github.com/nodekit-build/jsresolve/internal/resolver"
)

func newResolveCmd() *cobra.Command {
	var (
		fromFile   string
		projectDir string
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <require>",
		Short: "Resolve one require string and print the resulting resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer log.Sync()

			if projectDir == "" {
				projectDir, err = os.Getwd()
				if err != nil {
					return err
				}
			}

			opts, err := loadOptions(viper.New(), projectDir, absJoin)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			log.Info("service configured",
				zap.String("project_dir", opts.ProjectDir),
				zap.Strings("js_package_dirs", opts.JSPackageDirs))

			deps, err := classpath.ScanDeclaredNpmDeps(opts.JSPackageDirs, "")
			if err != nil {
				log.Warn("classpath scan failed", zap.Error(err))
			} else {
				log.Info("classpath scan complete", zap.Int("declared_deps", len(deps)))
			}

			svc := resolver.New(fs.RealFS(), opts, inspector.NewTreeSitter())
			svc.DeclaredNpmDeps = deps

			var requireFrom *resolver.RequireFrom
			if fromFile != "" {
				requireFrom = &resolver.RequireFrom{File: fromFile}
			}

			rc, rlog, err := svc.FindResource(requireFrom, args[0])
			bridgeLog(log, rlog)
			if err != nil {
				return fmt.Errorf("resolving %q: %w", args[0], err)
			}
			if rc == nil {
				return fmt.Errorf("no resource found for %q", args[0])
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rc)
			}
			fmt.Println(rc.ResourceName)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "from", "", "absolute path of the requesting source file")
	cmd.Flags().StringVar(&projectDir, "project-dir", "", "project root (default: current directory)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "print the full resource record as JSON")
	return cmd
}

// bridgeLog forwards one resolution call's collected logger.Msg records
// into zap at matching levels, the split the design notes describe between
// a scoped internal diagnostics type and the ambient logging stack.
func bridgeLog(z *zap.Logger, l *logger.Log) {
	for _, m := range l.Msgs() {
		fields := []zap.Field{zap.String("path", m.Path), zap.String("kind", m.Kind.String())}
		switch m.Kind {
		case logger.Error:
			z.Error(m.Text, fields...)
		case logger.Warning:
			z.Warn(m.Text, fields...)
		case logger.Info:
			z.Info(m.Text, fields...)
		default:
			z.Debug(m.Text, fields...)
		}
	}
}
