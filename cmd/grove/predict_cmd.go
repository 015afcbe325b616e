package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/forest"
)

type predictCmdConfig struct {
	*rootCmdConfig
	forestInput string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict ATTRIBUTE=VALUE...",
		Short: "Decide on a sample with a forest",
		Long:  `Use the loaded forest to decide on a sample given as attribute=value pairs, showing the votes of its trees`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			sample, err := parseSample(args)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			trees, err := loadForest(cmd.Context(), config.forestInput)
			if err != nil {
				config.Logger().Error("Loading forest", zap.Error(err))
				os.Exit(2)
			}
			if err = predict(os.Stdout, forest.New(trees...), sample); err != nil {
				config.Logger().Error("Deciding on sample", zap.Error(err))
				os.Exit(3)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.forestInput), "forest", "f", "", "path to a file, or redis://host:port/name URL, from which the forest will be read and parsed as JSON (required)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.forestInput == "" {
		return fmt.Errorf("required forest flag was not set")
	}
	return nil
}

func parseSample(args []string) (dataset.Sample, error) {
	choices := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return dataset.Sample{}, fmt.Errorf("invalid attribute value %q: expected ATTRIBUTE=VALUE", arg)
		}
		choices[name] = value
	}
	return dataset.NewSample(choices, ""), nil
}

func predict(w io.Writer, f *forest.Forest, sample dataset.Sample) error {
	decision, err := f.Decide(sample)
	if err != nil {
		return err
	}
	votes, err := f.Votes(sample)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Decision: %s\n", decision)
	votes.Each(func(d string, n int) {
		fmt.Fprintf(w, "  %s: %d/%d votes\n", d, n, votes.Total())
	})
	return nil
}
