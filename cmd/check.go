package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var CheckCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	c := &cobra.Command{
		Use:          "check ./folder|file.vdl",
		Short:        "Check the variance of the declarations in a folder",
		RunE:         runCheck,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
	}
	addLoadFlags(c)
	c.Flags().BoolP("show", "s", false, "print the resolved declarations when they are correct")
	return c
}

func runCheck(c *cobra.Command, args []string) error {
	pkg, cfg, err := loadTarget(c, args[0])
	if err != nil {
		return err
	}
	p := newPrinter(c.OutOrStdout(), cfg.Color)
	errs := pkg.Errors()
	p.diagnostics(errs, pkg)

	if errs.HasError() || (cfg.WarningsAsErrors && errs.Len() > 0) {
		return fmt.Errorf("%s found in %s", summary(errs), pkg.Name())
	}
	if show, _ := c.Flags().GetBool("show"); show {
		_, _ = fmt.Fprint(c.OutOrStdout(), pkg.DisplayDeclarations())
	}
	if errs.Len() > 0 {
		cliLogger.Info("checked with warnings", "package", pkg.Name(), "warnings", errs.Len())
	}
	return nil
}
