package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/km-arc/go-discovery/framework/app"
	"github.com/km-arc/go-discovery/framework/autowire"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
)

// inspect prints every registered class with its autowire eligibility and
// how each constructor parameter would be resolved, then the routes.
func inspect(w io.Writer, a *app.Application) error {
	reg, cl := a.Registry(), a.Classifier()

	fmt.Fprintln(w, bold("Classes"))
	for _, name := range reg.Names() {
		class, err := reg.Introspect(name)
		if err != nil {
			return err
		}
		mark := red("manual")
		if cl.CanAutowire(name) {
			mark = green("autowire")
		}
		ctor := ""
		if !class.HasConstructor() {
			ctor = faint(" (no constructor)")
		}
		fmt.Fprintf(w, "  %s [%s]%s\n", name, mark, ctor)
		for _, p := range class.Params() {
			fmt.Fprintf(w, "    %d %-14s %s\n", p.Position, p.Name, plan(p))
		}
	}

	routes, err := a.Router().Routes()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, bold("Routes"))
	for _, r := range routes {
		fmt.Fprintf(w, "  %-7s %s\n", r.Method, cyan(r.Pattern))
	}
	return nil
}

// plan describes how the factory resolves p.
func plan(p autowire.Parameter) string {
	r, err := autowire.Plan("", p)
	var uerr *autowire.UnresolvableParameterError
	switch {
	case errors.As(err, &uerr):
		if uerr.Type != "" {
			return red("unresolvable: " + uerr.Reason + " " + uerr.Type)
		}
		return red("unresolvable: " + uerr.Reason)
	case err != nil:
		return red(err.Error())
	case r.Config != "":
		return fmt.Sprintf("config %s (%s)", r.Config, r.ConfigType)
	case r.Container != "":
		return "service " + r.Service + " in " + r.Container
	default:
		return "service " + r.Service
	}
}
