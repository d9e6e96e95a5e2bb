package cli

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/spec-kit/helpdesk-client/internal/resource"
	"github.com/spec-kit/helpdesk-client/internal/router"
	apperrors "github.com/spec-kit/helpdesk-client/pkg/util"
)

func (a *App) tagsCommand() *Command {
	var page, limit int
	return &Command{
		Name:    "tags",
		Summary: "List tags",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("tags", pflag.ContinueOnError)
			fs.IntVar(&page, "page", 1, "page number")
			fs.IntVar(&limit, "limit", resource.DefaultLimit, "tags per page")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			if _, err := a.enter(router.RouteTickets, nil); err != nil {
				return err
			}
			resp, err := a.Clients.Tags.List(ctx, page, limit)
			if err != nil {
				return a.failed(apperrors.Message(err, "failed to load tags"))
			}
			printTags(a.stdout, resp.Data)
			fmt.Fprintf(a.stdout, "page %d/%d, %d tags\n", resp.Page, max(resp.TotalPages, 1), resp.TotalCount)
			return nil
		},
	}
}

func (a *App) usersCommand() *Command {
	var page, limit int
	return &Command{
		Name:    "users",
		Summary: "List users that tickets can be assigned to",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("users", pflag.ContinueOnError)
			fs.IntVar(&page, "page", 1, "page number")
			fs.IntVar(&limit, "limit", resource.DefaultUserLimit, "users per page")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			if _, err := a.enter(router.RouteTicketCreate, nil); err != nil {
				return err
			}
			resp, err := a.Clients.Users.List(ctx, page, limit)
			if err != nil {
				return a.failed(apperrors.Message(err, "failed to load users"))
			}
			tw := newTable(a.stdout)
			fmt.Fprintln(tw, "ID\tLOGIN\tNAME\tEMAIL")
			for _, u := range resp.Data {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.LoginID, displayName(&u.Name), u.Email)
			}
			return tw.Flush()
		},
	}
}
