package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/simdeck/internal/config"
	"github.com/mattjoyce/simdeck/internal/doctor"
)

func newDoctorCmd(d deps, gf *globalFlags) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and the simulator backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadOrDefault(gf.configPath)
			if err != nil {
				return err
			}
			result := doctor.New(cfg, d.newBackend(cfg)).Check(cmd.Context())

			if jsonOut {
				out, err := doctor.FormatJSON(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(d.stdout, out)
			} else {
				fmt.Fprint(d.stdout, doctor.FormatHuman(result))
			}
			if !result.Valid {
				return errActionFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the report as JSON")
	return cmd
}
