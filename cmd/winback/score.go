package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/winback/internal/cli"
	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/config"
	"github.com/Veraticus/winback/internal/exclusion"
	"github.com/Veraticus/winback/internal/normalize"
	"github.com/Veraticus/winback/internal/similarity"
)

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <designation> <catalog name>",
		Short: "Explain the composite score of two product names",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadEngineConfig()
			if err != nil {
				return common.NewUserError("Invalid configuration", err)
			}
			scorer, err := similarity.NewScorer(settings.Scoring)
			if err != nil {
				return common.NewUserError("Invalid scoring configuration", err)
			}

			query, candidate := normalize.Normalize(args[0]), normalize.Normalize(args[1])
			b := scorer.Score(query, candidate)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %q\n", cli.SubtleStyle.Render("query    "), query)
			fmt.Fprintf(out, "%s %q\n", cli.SubtleStyle.Render("candidate"), candidate)
			fmt.Fprintln(out, b.String())

			verdict := cli.FormatWarning(fmt.Sprintf("score %d is below threshold %d", b.Score, settings.Engine.Threshold))
			if b.Score >= settings.Engine.Threshold {
				verdict = cli.FormatSuccess(fmt.Sprintf("score %d matches (threshold %d)", b.Score, settings.Engine.Threshold))
			}
			fmt.Fprintln(out, verdict)

			if d := exclusion.NewFilter(settings.Exclusion).Check(args[0]); d.Excluded {
				fmt.Fprintln(out, cli.FormatInfo("the designation would be excluded ("+d.Reason()+")"))
			}
			return nil
		},
	}
}
