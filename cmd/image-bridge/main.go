package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/image-bridge/internal/server"
	"github.com/ironsheep/image-bridge/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func versionText() string {
	return fmt.Sprintf("image-bridge %s\n  Build time: %s\n  Git commit: %s\n  Platform:   %s\n",
		Version, BuildTime, GitCommit, server.PlatformVersion())
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "image-bridge",
		Short: "Compress, crop and inspect images from the command line or over stdio",
		Long: `image-bridge resizes, recompresses and crops images into a cache directory,
keeping their camera metadata, and reads image dimensions and EXIF orientation.

Run "image-bridge serve" to answer line-delimited JSON calls on stdin/stdout.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(versionText())

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (TOML, YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newCompressCmd(opts),
		newCropCmd(opts),
		newPropertiesCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer image calls over stdin/stdout",
		Long:  `Reads one JSON request per line from stdin and writes one JSON response per line to stdout. Logs go to stderr.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				a.logStartup(Version, BuildTime, GitCommit)
				err := server.New(a.svc, a.pool).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
				if errors.Is(err, context.Canceled) {
					log.Info().Msg("interrupted, exiting")
					return nil
				}
				return err
			})
		},
	}
}

func newCompressCmd(opts *rootOptions) *cobra.Command {
	var (
		percentage int
		quality    int
		width      int
		height     int
	)

	cmd := &cobra.Command{
		Use:   "compress FILE",
		Short: "Resize and recompress an image into the cache directory",
		Long:  `Resizes FILE by a percentage (or to an explicit width and/or height), reduces it to 16-bit colour and writes it as JPEG. Prints the output path.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.CompressRequest{
				Path:         args[0],
				Percentage:   percentage,
				TargetWidth:  width,
				TargetHeight: height,
				Quality:      quality,
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				out, err := a.run(ctx, func(ctx context.Context) (any, error) {
					return a.svc.Compress(ctx, req)
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&percentage, "percentage", "p", 100, "Scale factor in percent")
	cmd.Flags().IntVarP(&quality, "quality", "q", 80, "JPEG quality (0-100)")
	cmd.Flags().IntVar(&width, "width", 0, "Output width in pixels (overrides percentage)")
	cmd.Flags().IntVar(&height, "height", 0, "Output height in pixels (overrides percentage)")
	return cmd
}

func newCropCmd(opts *rootOptions) *cobra.Command {
	var x, y, width, height int

	cmd := &cobra.Command{
		Use:   "crop FILE",
		Short: "Crop a rectangle out of an image into the cache directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.CropRequest{
				Path:    args[0],
				OriginX: x,
				OriginY: y,
				Width:   width,
				Height:  height,
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				out, err := a.run(ctx, func(ctx context.Context) (any, error) {
					return a.svc.Crop(ctx, req)
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&x, "x", 0, "Left edge of the rectangle")
	cmd.Flags().IntVar(&y, "y", 0, "Top edge of the rectangle")
	cmd.Flags().IntVar(&width, "width", 0, "Rectangle width")
	cmd.Flags().IntVar(&height, "height", 0, "Rectangle height")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

func newPropertiesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "properties FILE",
		Short: "Print the dimensions and EXIF orientation of an image as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				props, err := a.run(ctx, func(ctx context.Context) (any, error) {
					return a.svc.Properties(ctx, args[0])
				})
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(props)
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionText())
		},
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
