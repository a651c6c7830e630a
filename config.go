/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/codenames/games"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	firstClueGiver  string
	firstGuesser    string
	secondClueGiver string
	secondGuesser   string

	vocabulary        string
	seed              uint64
	games             int
	totalCards        int
	teamCards         int
	turnTimeout       time.Duration
	maxTurns          int
	enforceGuessLimit bool

	bind    string
	port    int
	prefix  string
	linger  time.Duration
	profile bool
	tlsCert string
	tlsKey  string
	verbose bool
	version bool
}

func (c *Config) params() games.Params {
	return games.Params{TotalCards: c.totalCards, TeamCards: c.teamCards}
}

func (c *Config) agentCommands() [2][2]string {
	return [2][2]string{
		{c.firstClueGiver, c.firstGuesser},
		{c.secondClueGiver, c.secondGuesser},
	}
}

func (c *Config) validate() error {
	for _, agent := range []struct{ flag, command string }{
		{"--first-clue-giver", c.firstClueGiver},
		{"--first-guesser", c.firstGuesser},
		{"--second-clue-giver", c.secondClueGiver},
		{"--second-guesser", c.secondGuesser},
	} {
		if strings.TrimSpace(agent.command) == "" {
			return fmt.Errorf("%s must be provided", agent.flag)
		}
	}
	if err := c.params().Validate(); err != nil {
		return err
	}
	if c.games < 1 {
		return fmt.Errorf("invalid game count (must be at least 1): %d", c.games)
	}
	if c.turnTimeout < 0 {
		return fmt.Errorf("invalid turn timeout (must not be negative): %s", c.turnTimeout)
	}
	if c.maxTurns < 0 {
		return fmt.Errorf("invalid turn limit (must not be negative): %d", c.maxTurns)
	}
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 0 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 0-65535 inclusive): %d", c.port)
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
	v.SetEnvPrefix("CODENAMES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "codenames",
		Short:         "Referee for Codenames matches between agent processes.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.StringVar(&cfg.vocabulary, "vocabulary", "/usr/share/dict/words", "word list, one word per line (env: CODENAMES_VOCABULARY)")
	pfs.Uint64Var(&cfg.seed, "seed", 0, "random seed, 0 picks one (env: CODENAMES_SEED)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: CODENAMES_VERBOSE)")

	fs := cmd.Flags()
	fs.StringVar(&cfg.firstClueGiver, "first-clue-giver", "", "command for the first team's clue-giver (env: CODENAMES_FIRST_CLUE_GIVER)")
	fs.StringVar(&cfg.firstGuesser, "first-guesser", "", "command for the first team's guesser (env: CODENAMES_FIRST_GUESSER)")
	fs.StringVar(&cfg.secondClueGiver, "second-clue-giver", "", "command for the second team's clue-giver (env: CODENAMES_SECOND_CLUE_GIVER)")
	fs.StringVar(&cfg.secondGuesser, "second-guesser", "", "command for the second team's guesser (env: CODENAMES_SECOND_GUESSER)")
	fs.IntVarP(&cfg.games, "games", "n", 1, "number of games to play (env: CODENAMES_GAMES)")
	fs.IntVar(&cfg.totalCards, "total-cards", games.DefaultTotalCards, "cards dealt per game (env: CODENAMES_TOTAL_CARDS)")
	fs.IntVar(&cfg.teamCards, "team-cards", games.DefaultTeamCards, "cards per team, the starting team gets one more (env: CODENAMES_TEAM_CARDS)")
	fs.DurationVar(&cfg.turnTimeout, "turn-timeout", 0, "forfeit a turn whose agents take longer than this, 0 to wait forever (env: CODENAMES_TURN_TIMEOUT)")
	fs.IntVar(&cfg.maxTurns, "max-turns", 0, "abandon a game after this many turns, 0 for no limit (env: CODENAMES_MAX_TURNS)")
	fs.BoolVar(&cfg.enforceGuessLimit, "enforce-guess-limit", true, "rule guesses past count+1 invalid (env: CODENAMES_ENFORCE_GUESS_LIMIT)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind the spectator server to (env: CODENAMES_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 0, "spectator server port, 0 to disable (env: CODENAMES_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: CODENAMES_PREFIX)")
	fs.DurationVar(&cfg.linger, "linger", 0, "keep the spectator server up this long after the last game (env: CODENAMES_LINGER)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: CODENAMES_PROFILE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: CODENAMES_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: CODENAMES_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: CODENAMES_VERSION)")

	for _, set := range []*pflag.FlagSet{pfs, fs} {
		bindEnv(v, set)
	}

	cmd.AddCommand(newAgentCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("codenames v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// bindEnv lets CODENAMES_* variables stand in for flags not given on the
// command line.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
