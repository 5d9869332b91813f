package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/gymapp/internal/app"
	"github.com/templui/gymapp/internal/config"
	"github.com/templui/gymapp/internal/seed"
)

func SeedCmd(cfg *config.Config) *cobra.Command {
	var opts seed.Options

	c := &cobra.Command{
		Use:   "seed",
		Short: "Create demo users, the exercise pool and a workout history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(a *app.App) error {
				sum, err := seed.Run(cmd.Context(), a, opts)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d exercises, %d workouts\n",
					sum.Users, sum.Exercises, sum.Workouts)
				return nil
			})
		},
	}
	c.Flags().IntVar(&opts.WorkoutsPerUser, "workouts", 50, "workouts to generate per user")
	c.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed")
	return c
}
