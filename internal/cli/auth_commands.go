package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/router"
)

func (a *App) loginCommand() *Command {
	var passwordStdin bool
	return &Command{
		Name:    "login",
		Summary: "Sign in and store the access token",
		Usage:   "helpdesk login <login-id> [password] [--password-stdin]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
			fs.BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if _, err := a.enter(router.RouteLogin, nil); err != nil {
				return err
			}
			loginID, password, err := a.credentials(args, passwordStdin)
			if err != nil {
				return err
			}
			if !a.Session.Login(ctx, loginID, password) {
				return a.failed(a.Session.Error())
			}
			user := a.Session.User()
			fmt.Fprintf(a.stdout, "logged in as %s\n", user.LoginID)
			return nil
		},
	}
}

func (a *App) registerCommand() *Command {
	var (
		req           domain.RegisterRequest
		passwordStdin bool
	)
	return &Command{
		Name:    "register",
		Summary: "Create an account and sign in",
		Usage:   "helpdesk register <login-id> [password] --email <email> [--first <name>] [--last <name>] [--display <name>]",
		Flags: func() *pflag.FlagSet {
			req = domain.RegisterRequest{}
			fs := pflag.NewFlagSet("register", pflag.ContinueOnError)
			fs.StringVar(&req.Email, "email", "", "email address (required)")
			fs.StringVar(&req.Name.First, "first", "", "first name")
			fs.StringVar(&req.Name.Last, "last", "", "last name")
			fs.StringVar(&req.Name.Display, "display", "", "display name")
			fs.BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if _, err := a.enter(router.RouteRegister, nil); err != nil {
				return err
			}
			loginID, password, err := a.credentials(args, passwordStdin)
			if err != nil {
				return err
			}
			req.LoginID = loginID
			req.Password = password
			if !a.Session.Register(ctx, req) {
				return a.failed(a.Session.Error())
			}
			fmt.Fprintf(a.stdout, "registered and logged in as %s\n", req.LoginID)
			return nil
		},
	}
}

func (a *App) logoutCommand() *Command {
	var all bool
	return &Command{
		Name:    "logout",
		Summary: "End the session",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("logout", pflag.ContinueOnError)
			fs.BoolVar(&all, "all", false, "revoke every session of the user")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			if all {
				a.Session.LogoutAll(ctx)
			} else {
				a.Session.Logout(ctx)
			}
			fmt.Fprintln(a.stdout, "logged out")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *Command {
	return &Command{
		Name:    "whoami",
		Summary: "Show the signed-in user and roles",
		Run: func(ctx context.Context, _ []string) error {
			if _, err := a.enter(router.RouteHome, nil); err != nil {
				return err
			}
			if !a.Session.FetchMe(ctx) {
				return a.failed(orDefault(a.Session.Error(), "session is no longer valid"))
			}
			user := a.Session.User()
			tw := newTable(a.stdout)
			fmt.Fprintf(tw, "id\t%s\n", user.ID)
			fmt.Fprintf(tw, "login\t%s\n", user.LoginID)
			fmt.Fprintf(tw, "email\t%s\n", user.Email)
			fmt.Fprintf(tw, "name\t%s\n", displayName(&user.Name))
			fmt.Fprintf(tw, "roles\t%s\n", orDash(strings.Join(a.Session.Roles(), ", ")))
			if exp, ok := a.Session.TokenExpiry(); ok {
				fmt.Fprintf(tw, "token expires\t%s\n", exp.Local().Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func (a *App) refreshCommand() *Command {
	return &Command{
		Name:    "refresh",
		Summary: "Exchange the refresh cookie for a new access token",
		Run: func(ctx context.Context, _ []string) error {
			if _, err := a.enter(router.RouteHome, nil); err != nil {
				return err
			}
			if !a.Session.RefreshToken(ctx) {
				return a.failed(orDefault(a.Session.Error(), "token refresh failed, signed out"))
			}
			fmt.Fprintln(a.stdout, "access token refreshed")
			return nil
		},
	}
}

// credentials takes the login id from args and the password from args or stdin.
func (a *App) credentials(args []string, passwordStdin bool) (string, string, error) {
	if len(args) == 0 {
		return "", "", errors.New("login id is required")
	}
	loginID := args[0]
	switch {
	case passwordStdin:
		line, err := bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		return loginID, strings.TrimRight(line, "\r\n"), nil
	case len(args) > 1:
		return loginID, args[1], nil
	default:
		return "", "", errors.New("password is required (pass it as an argument or use --password-stdin)")
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
