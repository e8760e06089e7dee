// Command ontstat fetches device information from a MitraStar ONT's web
// management interface and prints it as JSON or a table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ontstat/ontstat"
	"github.com/rs/zerolog"
)

func main() {
	host := flag.String("host", ontstat.DefaultHost, "ONT address")
	credentials := flag.String("credentials", "credentials.ini", "path to credentials INI file")
	format := flag.String("format", "json", "output format (json or table)")
	timeout := flag.Duration("timeout", ontstat.DefaultTimeout, "request timeout")
	verbose := flag.Bool("v", false, "enable verbose output")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(context.Background(), log, *host, *credentials, *format, *timeout, *verbose); err != nil {
		var (
			configErr *ontstat.ConfigError
			authErr   *ontstat.AuthError
			parseErr  *ontstat.ParseError
		)
		switch {
		case errors.As(err, &configErr):
			log.Error().Err(err).Msg("configuration error")
		case errors.As(err, &authErr):
			log.Error().Err(err).Msg("authentication failed")
		case errors.As(err, &parseErr):
			log.Error().Err(err).Msg("unexpected device response")
		default:
			log.Error().Err(err).Msg("error")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, log zerolog.Logger, host, credentials, format string, timeout time.Duration, verbose bool) error {
	if format != "json" && format != "table" {
		return fmt.Errorf("invalid format %q", format)
	}

	creds, err := ontstat.LoadCredentials(credentials)
	if err != nil {
		return err
	}

	// options
	opts := []ontstat.ClientOption{
		ontstat.WithHost(host),
		ontstat.WithTimeout(timeout),
	}
	if verbose {
		opts = append(opts, ontstat.WithLogf(log.Printf))
	}

	// create client
	cl, err := ontstat.NewClient(opts...)
	if err != nil {
		return err
	}

	log.Info().Str("url", cl.URL()).Msg("connecting")
	if err := cl.Login(ctx, creds.Username, creds.Password); err != nil {
		return err
	}
	log.Info().Msg("logged in")

	log.Info().Msg("fetching device information")
	info, err := cl.DeviceInfo(ctx)
	if err != nil {
		return err
	}

	if format == "table" {
		return ontstat.WriteTable(os.Stdout, info)
	}
	return ontstat.WriteJSON(os.Stdout, info)
}
