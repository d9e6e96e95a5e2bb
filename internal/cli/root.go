package cli

// Root returns the helpdesk command tree bound to a.
func (a *App) Root() *Command {
	return &Command{
		Name:    "helpdesk",
		Summary: "Command line client for the helpdesk ticket service",
		Subcommands: []*Command{
			a.loginCommand(),
			a.registerCommand(),
			a.logoutCommand(),
			a.whoamiCommand(),
			a.refreshCommand(),
			a.ticketsCommand(),
			a.ticketCommand(),
			a.tagsCommand(),
			a.usersCommand(),
			a.mailCommand(),
			a.localeCommand(),
		},
	}
}

// PrintMetrics writes the client request counters gathered during this run.
func (a *App) PrintMetrics() error {
	return printMetrics(a.stdout, a.Registry)
}
