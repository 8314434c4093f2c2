package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docpin/internal/pinning"
)

type pinnerFactory func() (pinning.Pinner, error)

func newRootCmd(newPinner pinnerFactory) *cobra.Command {
	root := &cobra.Command{
		Use:   "pinctl",
		Short: "manage IPFS pins on Pinata",
		Example: `pinctl upload ./paper.pdf --name paper.pdf
pinctl url <cid>
pinctl unpin <cid>
pinctl metadata <cid>`,
		SilenceUsage: true,
	}
	root.CompletionOptions.HiddenDefaultCmd = true
	root.AddCommand(
		uploadCmd(newPinner),
		urlCmd(newPinner),
		unpinCmd(newPinner),
		metadataCmd(newPinner),
	)
	return root
}

func uploadCmd(newPinner pinnerFactory) *cobra.Command {
	var name string
	command := &cobra.Command{
		Use:   "upload <path>",
		Short: "pin a local file and print its CID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPinner()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if name == "" {
				name = filepath.Base(args[0])
			}
			res, err := p.Pin(cmd.Context(), f, name, mime.TypeByExtension(filepath.Ext(name)))
			if err != nil {
				return err
			}
			if res.IsDuplicate {
				fmt.Fprintf(cmd.ErrOrStderr(), "content already pinned\n")
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.IpfsHash)
			return nil
		},
	}
	command.Flags().StringVarP(&name, "name", "n", "", "file name stored in pin metadata (default: base name of path)")
	return command
}

func urlCmd(newPinner pinnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "url <cid>",
		Short: "print the gateway URL for a CID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPinner()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.FileURL(args[0]))
			return nil
		},
	}
}

func unpinCmd(newPinner pinnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "unpin <cid>",
		Short: "remove a pin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPinner()
			if err != nil {
				return err
			}
			if err := p.Unpin(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, pinning.ErrPinNotFound) {
					return fmt.Errorf("%s is not pinned", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unpinned %s\n", args[0])
			return nil
		},
	}
}

func metadataCmd(newPinner pinnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <cid>",
		Short: "print the pin list entry for a CID as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPinner()
			if err != nil {
				return err
			}
			list, err := p.PinList(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		},
	}
}
