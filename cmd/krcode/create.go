package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"kompi/internal/engine/krcodes"
	"kompi/internal/engine/links"
)

func newCreateCmd(a *app) *cobra.Command {
	var target, code, title, style string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a short link together with a KR Code",
		Example: `  krcode create --target example.com/menu --title Menu
  krcode create --target https://example.com --code spring --style '{"fg":"#112233","size":300}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var rawStyle json.RawMessage
			if style != "" {
				rawStyle = json.RawMessage(style)
			}

			tx, err := a.db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin transaction: %w", err)
			}
			defer tx.Rollback()

			link, err := links.NewService(links.NewRepository(tx)).CreateLink(ctx, target, code, title)
			if err != nil {
				return fmt.Errorf("create link: %w", err)
			}

			kr, err := krcodes.NewService(krcodes.NewRepository(tx)).Create(ctx, title, link, rawStyle)
			if err != nil {
				return fmt.Errorf("create kr code: %w", err)
			}

			if err := tx.Commit(); err != nil {
				return fmt.Errorf("commit: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Link:    %s -> %s\n", link.Code, link.TargetURL)
			fmt.Fprintf(out, "KR Code: %s\n", kr.ID)
			if a.cfg.App.PublicURL != "" {
				fmt.Fprintf(out, "Scan URL: %s\n", krcodes.ScanURL(a.cfg.App.PublicURL, link.Code))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Destination URL")
	cmd.Flags().StringVar(&code, "code", "", "Custom short code (random when empty)")
	cmd.Flags().StringVar(&title, "title", "", "Title for the link and KR Code")
	cmd.Flags().StringVar(&style, "style", "", "Style JSON")
	cmd.MarkFlagRequired("target")

	return cmd
}
