package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"safari/internal/apiclient"
	"safari/internal/auth"
)

const defaultAPIURL = "http://localhost:8080"

type app struct {
	client *apiclient.Client
	out    io.Writer
	errOut io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"packages": {"list active safari packages", cmdPackages},
	"deals":    {"list the deals of a package", cmdDeals},
	"addons":   {"list available add-ons", cmdAddons},
	"book":     {"price and submit a booking", cmdBook},
	"show":     {"show a booking", cmdShow},
	"voucher":  {"download a booking voucher PDF", cmdVoucher},
	"login":    {"log in as admin", cmdLogin},
	"logout":   {"forget the admin token", cmdLogout},
	"bookings": {"list bookings (admin)", cmdBookings},
	"status":   {"change a booking status (admin)", cmdStatus},
	"verify":   {"verify a scanned voucher code (admin)", cmdVerify},
}

// errUsage means the flags were wrong; the flag set already printed why.
var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	log.SetOutput(stderr)
	log.SetFlags(0)

	global := flag.NewFlagSet("booker", flag.ContinueOnError)
	global.SetOutput(stderr)
	apiURL := global.String("api", envOr("SAFARI_API_URL", defaultAPIURL), "booking API base URL")
	tokenPath := global.String("token-file", "", "admin token file (default: user config dir)")
	global.Usage = func() { usage(stderr, global) }
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		usage(stderr, global)
		return 2
	}

	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		usage(stderr, global)
		return 2
	}

	store, err := tokenStore(*tokenPath)
	if err != nil {
		fmt.Fprintf(stderr, "token store: %v\n", err)
		return 1
	}
	a := &app{client: apiclient.New(*apiURL, store), out: stdout, errOut: stderr}
	if err := cmd.run(ctx, a, global.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return 1
	}
	return 0
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: booker [-api URL] [-token-file PATH] <command> [flags]")
	fmt.Fprintln(w, "\ncommands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-9s %s\n", n, commands[n].summary)
	}
	fmt.Fprintln(w, "\nglobal flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func tokenStore(path string) (auth.TokenStore, error) {
	if path == "" {
		p, err := auth.DefaultTokenPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return auth.FileTokenStore{Path: path}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parse parses a subcommand's flags; a parse failure is reported as errUsage.
func parse(fs *flag.FlagSet, a *app, args []string) error {
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}
