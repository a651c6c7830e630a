/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math/rand/v2"

	"github.com/Seednode/codenames/agents"
	"github.com/spf13/cobra"
)

// newAgentCmd exposes the reference agents, so a match can be run with
// this binary alone:
//
//	codenames --first-clue-giver "codenames agent clue-giver" ...
func newAgentCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "agent",
		Short:  "Run a reference agent on stdin and stdout.",
		Hidden: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clue-giver",
		Short: "Give random clues that avoid the board.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := agentRand(cfg)
			if err != nil {
				return err
			}

			vocab, err := loadVocabulary(cfg)
			if err != nil {
				return err
			}

			agent := &agents.ClueGiver{
				Vocabulary: vocab.Words(),
				Rand:       rng,
				Logf:       gameLogf(cfg),
			}

			return agent.Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "guesser",
		Short: "Guess random cards.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := agentRand(cfg)
			if err != nil {
				return err
			}

			agent := &agents.Guesser{
				Rand: rng,
				Logf: gameLogf(cfg),
			}

			return agent.Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})

	return cmd
}

func agentRand(cfg *Config) (*rand.Rand, error) {
	seed := cfg.seed
	if seed == 0 {
		var err error
		if seed, err = newSeed(); err != nil {
			return nil, err
		}
	}

	return rand.New(rand.NewPCG(seed, seed>>32)), nil
}
