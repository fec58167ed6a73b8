package main

import "context"

// access decides which commands need a signed-in user.
type access int

const (
	// accessOpen commands run either way.
	accessOpen access = iota
	// accessPublic commands only make sense while signed out.
	accessPublic
	// accessProtected commands need credentials.
	accessProtected
)

type redirect int

const (
	redirectNone redirect = iota
	redirectLogin
	redirectDashboard
)

// route is the navigation guard: signed-out users reaching a protected
// command go to login first, signed-in users asking for login or signup
// land on the dashboard instead.
func route(a access, authenticated bool) redirect {
	switch {
	case a == accessProtected && !authenticated:
		return redirectLogin
	case a == accessPublic && authenticated:
		return redirectDashboard
	default:
		return redirectNone
	}
}

type command struct {
	name    string
	summary string
	access  access
	run     func(c *cli, ctx context.Context, args []string) error
}

func commands() []command {
	return []command{
		{"signup", "create an account", accessPublic, (*cli).signup},
		{"login", "sign in with email and password or a Google ID token", accessPublic, (*cli).login},
		{"logout", "sign out and forget stored credentials", accessOpen, (*cli).logout},
		{"status", "show credential mode and token expiry", accessOpen, (*cli).status},
		{"profile", "show the signed-in user", accessProtected, (*cli).profile},
		{"dashboard", "overview, or start an interview with -resume and -jd", accessProtected, (*cli).dashboard},
		{"start", "upload a résumé and job description, then interview", accessProtected, (*cli).start},
		{"session", "resume interview <id>", accessProtected, (*cli).session},
		{"history", "list past interviews, or show one by id", accessProtected, (*cli).history},
		{"feedback", "send feedback about the service", accessProtected, (*cli).feedback},
		{"run", "execute a source file through the code runner", accessProtected, (*cli).runFile},
		{"help", "show this help", accessOpen, (*cli).help},
	}
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands() {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}
