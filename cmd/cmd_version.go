package cmd

import (
	"fmt"

	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/assets"
	"github.com/assetdeal/registry-network/modules/deals"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

var versions = map[string]string{
	"":       version,
	"assets": assets.Version,
	"deals":  deals.Version,
}

type versionCmdOptions struct {
	Module string
}

func NewVersionCommand() *cobra.Command {
	opts := &versionCmdOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show assetdeal version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return versionHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Module, "module", "", `Show version of a specific module. E.g. "assets"`)

	return cmd
}

func versionHandler(opts *versionCmdOptions, _ *cobra.Command, _ []string) error {
	v, ok := versions[opts.Module]
	if !ok {
		return errors.Wrap(errs.Unsupported, "Invalid module name")
	}
	fmt.Println(v)
	return nil
}
