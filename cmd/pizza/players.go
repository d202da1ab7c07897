package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	playersLeague string
	playersTeam   string
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Browse the lookup table: leagues, then teams, then players",
	Long: `Without flags, lists leagues. With --league, lists that league's teams.
With --team, lists that team's players.`,
	RunE: runPlayers,
}

func init() {
	playersCmd.Flags().StringVar(&playersLeague, "league", "", "list the teams of this league")
	playersCmd.Flags().StringVar(&playersTeam, "team", "", "list the players of this team")
}

func runPlayers(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	st, err := a.loadStore(cmd.Context())
	if err != nil {
		return err
	}

	var list []string
	switch {
	case playersTeam != "":
		list = st.Players(playersTeam)
	case playersLeague != "":
		list = st.Teams(playersLeague)
	default:
		list = st.Leagues()
	}
	for _, s := range list {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	return nil
}
