package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/helpdesk-client/internal/i18n"
)

func (a *App) localeCommand() *Command {
	return &Command{
		Name:    "locale",
		Summary: "Show or change the interface language",
		Usage:   "helpdesk locale [tag]",
		Run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				fmt.Fprintf(a.stdout, "%s (supported: %s)\n", a.Locales.Get(), strings.Join(i18n.Supported(), ", "))
				return nil
			}
			applied, err := a.Locales.Set(ctx, args[0])
			if err != nil {
				return a.failed(err.Error())
			}
			fmt.Fprintf(a.stdout, "locale set to %s\n", applied)
			return nil
		},
	}
}
