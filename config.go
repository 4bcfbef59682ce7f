package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	addEveryUser      bool
	bind              string
	chatNotifications bool
	database          string
	deviceID          string
	playlist          string
	port              int
	prefix            string
	profile           bool
	spotifyToken      string
	tlsCert           string
	tlsKey            string
	twitchChannel     string
	twitchToken       string
	verbose           bool
	version           bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.twitchChannel == "" {
		return errors.New("a twitch channel is required (--twitch-channel)")
	}
	if c.playlist == "" {
		return errors.New("a playlist file is required (--playlist)")
	}
	if c.chatNotifications && c.twitchToken == "" {
		return errors.New("--chat-notifications requires --twitch-token")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BLINDTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "blindtest",
		Short:         "A blind-test music guessing game for Twitch chat, scored live on a streamer dashboard.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.BoolVar(&cfg.addEveryUser, "add-every-user", false, "register every observed chatter at 0 points (env: BLINDTEST_ADD_EVERY_USER)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: BLINDTEST_BIND)")
	fs.BoolVar(&cfg.chatNotifications, "chat-notifications", false, "announce correct guesses in chat (env: BLINDTEST_CHAT_NOTIFICATIONS)")
	fs.StringVar(&cfg.database, "database", "blindtest.sqlite3", "path to the scores/progress database (env: BLINDTEST_DATABASE)")
	fs.StringVar(&cfg.deviceID, "device-id", "", "spotify connect device id to drive (env: BLINDTEST_DEVICE_ID)")
	fs.StringVar(&cfg.playlist, "playlist", "", "path to the yaml track list (env: BLINDTEST_PLAYLIST)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: BLINDTEST_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: BLINDTEST_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: BLINDTEST_PROFILE)")
	fs.StringVar(&cfg.spotifyToken, "spotify-token", "", "spotify api access token (env: BLINDTEST_SPOTIFY_TOKEN)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: BLINDTEST_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: BLINDTEST_TLS_KEY)")
	fs.StringVar(&cfg.twitchChannel, "twitch-channel", "", "twitch channel whose chat plays the game (env: BLINDTEST_TWITCH_CHANNEL)")
	fs.StringVar(&cfg.twitchToken, "twitch-token", "", "twitch oauth token, needed for chat notifications (env: BLINDTEST_TWITCH_TOKEN)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: BLINDTEST_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: BLINDTEST_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("blindtest v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
