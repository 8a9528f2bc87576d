package cmd

import (
	"fmt"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/types"
	"github.com/cottand/variance/variance"
	"github.com/spf13/cobra"
)

var (
	SubtypeCmd = newSubtypeCmd()
	CastCmd    = newCastCmd()
)

func newSubtypeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "subtype ./folder|file.vdl A B",
		Short: "Decide whether A is a subtype of B",
		Long: `Decide whether the type A is a subtype of the type B, using the declarations of a folder.

Types are written like in declarations, for example 'Box<out User>' or 'Map<String, *>'.`,
		RunE:         runSubtype,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
	}
	addLoadFlags(c)
	return c
}

func newCastCmd() *cobra.Command {
	c := &cobra.Command{
		Use:          "cast ./folder|file.vdl FROM TO",
		Short:        "Classify a cast from FROM to TO",
		RunE:         runCast,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
	}
	addLoadFlags(c)
	return c
}

// loadForQuery loads the package at target and reports its diagnostics. Queries
// are still answered when the declarations have errors.
func loadForQuery(c *cobra.Command, target string) (*variance.Package, printer, error) {
	pkg, cfg, err := loadTarget(c, target)
	if err != nil {
		return nil, printer{}, err
	}
	p := newPrinter(c.OutOrStdout(), cfg.Color)
	p.diagnostics(pkg.Errors(), pkg)
	return pkg, p, nil
}

func queryFailed(p printer, errs *ilerr.Errors, pkg *variance.Package) error {
	p.diagnostics(errs, pkg)
	return fmt.Errorf("%s found in query", summary(errs))
}

func runSubtype(c *cobra.Command, args []string) error {
	pkg, p, err := loadForQuery(c, args[0])
	if err != nil {
		return err
	}
	res, errs := pkg.Subtype(args[1], args[2])
	if errs.HasError() {
		return queryFailed(p, errs, pkg)
	}
	p.verdict(res.Assignable, res.String())
	return nil
}

func runCast(c *cobra.Command, args []string) error {
	pkg, p, err := loadForQuery(c, args[0])
	if err != nil {
		return err
	}
	res, errs := pkg.Cast(args[1], args[2])
	if errs.HasError() {
		return queryFailed(p, errs, pkg)
	}
	p.verdict(res != types.Impossible, fmt.Sprintf("%s as %s: %s", args[1], args[2], res))
	return nil
}
