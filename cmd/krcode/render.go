package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kompi/internal/engine/krcodes"
	"kompi/internal/engine/links"
	"kompi/internal/engine/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var id, format, out, origin string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a KR Code artifact to a file",
		Example: `  krcode render --id 3f1c... --format svg --out menu.svg
  krcode render --id 3f1c... --format thumb --origin https://kompi.app`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := render.Format(format)
			switch f {
			case render.FormatPNG, render.FormatSVG, render.FormatThumb:
			default:
				return fmt.Errorf("unknown format %q (want png, svg or thumb)", format)
			}

			if origin == "" {
				origin = a.cfg.App.PublicURL
			}
			if origin == "" {
				return fmt.Errorf("--origin is required when app.public_url is not configured")
			}

			resolver := krcodes.NewResolver(krcodes.NewRepository(a.db), links.NewRepository(a.db))
			renderer := render.NewRenderer(resolver, render.NewLogoLoader(a.cfg.Assets.PublicRoot))

			art, err := renderer.Render(cmd.Context(), f, id, origin)
			if err != nil {
				return err
			}

			if out == "" {
				out = "krcode-" + id + "." + extension(f)
			}
			if err := os.WriteFile(out, art.Body, 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(art.Body))
			fmt.Fprintf(cmd.OutOrStdout(), "Encodes: %s\n", art.ScanURL)
			if art.Logo == render.LogoFailed {
				fmt.Fprintf(cmd.ErrOrStderr(), "Logo skipped: %v\n", art.LogoErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "KR Code id")
	cmd.Flags().StringVar(&format, "format", "png", "Output format: png, svg or thumb")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default krcode-{id}.{ext})")
	cmd.Flags().StringVar(&origin, "origin", "", "Origin for the encoded scan URL (default app.public_url)")
	cmd.MarkFlagRequired("id")

	return cmd
}

func extension(f render.Format) string {
	if f == render.FormatSVG {
		return "svg"
	}
	return "png"
}
