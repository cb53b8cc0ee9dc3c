package main

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/slhn-import/internal/host"
	"github.com/slhn-import/internal/resolver"
)

type resolveResult struct {
	SegmentID  string  `json:"segmentId" yaml:"segmentId"`
	StreetName string  `json:"streetName,omitempty" yaml:"streetName,omitempty"`
	Distance   float64 `json:"distance" yaml:"distance"`
	Fallback   bool    `json:"fallback" yaml:"fallback"`
}

func createResolveCmd() *cobra.Command {
	var hostFile, street string
	var x, y float64

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Find the segment a point would be added to",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := host.LoadSnapshot(hostFile)
			if err != nil {
				return err
			}

			res, ok := resolver.Resolve(snap, orb.Point{x, y}, street)
			if !ok {
				return fmt.Errorf("no segment with geometry in %s", hostFile)
			}

			out := resolveResult{
				SegmentID: res.Segment.ID,
				Distance:  res.Distance,
				Fallback:  res.Fallback,
			}
			if st, ok := snap.Street(res.Segment.PrimaryStreetID); ok {
				out.StreetName = st.Name
			}
			return printOutput(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&hostFile, "host", "", "host snapshot file (.yaml or .json)")
	cmd.Flags().Float64Var(&x, "x", 0, "x in the working projection")
	cmd.Flags().Float64Var(&y, "y", 0, "y in the working projection")
	cmd.Flags().StringVar(&street, "street", "", "street name to prefer")
	cmd.MarkFlagRequired("host")
	cmd.MarkFlagRequired("x")
	cmd.MarkFlagRequired("y")

	return cmd
}
