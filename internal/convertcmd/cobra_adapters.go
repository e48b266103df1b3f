package convertcmd

import (
	"github.com/lehigh-university-libraries/coco2yolo/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// BindFlags registers the conversion flags on fs, storing values in cfg.
func BindFlags(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.CocoPath, config.FlagCocoPath, "", "Path to COCO dataset root containing annotations/ and train2017/ (required)")
	fs.StringVar(&cfg.OutputPath, config.FlagOutputPath, "", "Path to output YOLO dataset (required)")
	fs.StringVar(&cfg.Labels, config.FlagLabels, "", "Comma separated list of category names (required)")
	fs.IntVar(&cfg.NSamples, config.FlagNSamples, config.DefaultNSamples, "Number of samples per class")
	fs.Uint64Var(&cfg.Seed, config.FlagSeed, 0, "Random seed for sampling (0 picks one from the clock)")
	fs.BoolVar(&cfg.WriteManifest, "manifest", true, "Write manifest.parquet listing exported images")
	fs.BoolVar(&cfg.WriteDataYAML, "data_yaml", true, "Write data.yaml for YOLO trainers")
}

// Run executes a conversion using flags already parsed into cfg.
func Run(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.ApplyEnv(cmd.Flags().Changed); err != nil {
		return err
	}
	_, err := executeConvert(cmd.Context(), cmd.OutOrStdout(), *cfg)
	return err
}
