/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		firstClueGiver:    "codenames agent clue-giver",
		firstGuesser:      "codenames agent guesser",
		secondClueGiver:   "codenames agent clue-giver",
		secondGuesser:     "codenames agent guesser",
		games:             1,
		totalCards:        25,
		teamCards:         8,
		enforceGuessLimit: true,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing agent", func(c *Config) { c.secondGuesser = " " }, "--second-guesser"},
		{"too few cards", func(c *Config) { c.totalCards = 17 }, "cards"},
		{"no team cards", func(c *Config) { c.teamCards = 0 }, "cards"},
		{"no games", func(c *Config) { c.games = 0 }, "game count"},
		{"negative timeout", func(c *Config) { c.turnTimeout = -time.Second }, "turn timeout"},
		{"negative turn limit", func(c *Config) { c.maxTurns = -1 }, "turn limit"},
		{"lone certificate", func(c *Config) { c.tlsCert = "cert.pem" }, "--tls-key"},
		{"port too large", func(c *Config) { c.port = 70000 }, "port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := validConfig()
	if cfg.scheme() != "http" {
		t.Fatalf("scheme %q", cfg.scheme())
	}

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	if cfg.scheme() != "https" {
		t.Fatalf("scheme %q", cfg.scheme())
	}
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("CODENAMES_TEAM_CARDS", "5")
	t.Setenv("CODENAMES_FIRST_CLUE_GIVER", "./clue-giver")
	t.Setenv("CODENAMES_SEED", "42")

	cfg := &Config{}
	cmd := newCmd(cfg)

	if err := cmd.ParseFlags([]string{"--total-cards", "16"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if cfg.teamCards != 5 {
		t.Fatalf("team cards %d, want 5", cfg.teamCards)
	}
	if cfg.firstClueGiver != "./clue-giver" {
		t.Fatalf("first clue-giver %q", cfg.firstClueGiver)
	}
	if cfg.seed != 42 {
		t.Fatalf("seed %d, want 42", cfg.seed)
	}
	if cfg.totalCards != 16 {
		t.Fatalf("total cards %d, want 16", cfg.totalCards)
	}
	if !cfg.enforceGuessLimit {
		t.Fatal("guess limit should be enforced by default")
	}
}

func TestParamsFollowConfig(t *testing.T) {
	cfg := validConfig()
	cfg.totalCards, cfg.teamCards = 12, 3

	p := cfg.params()
	if p.TotalCards != 12 || p.TeamCards != 3 {
		t.Fatalf("params %+v", p)
	}

	commands := cfg.agentCommands()
	if commands[1][1] != cfg.secondGuesser || commands[0][0] != cfg.firstClueGiver {
		t.Fatalf("agent commands %q", commands)
	}
}
