// Package main provides the motif-mark command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/motif-mark/internal/gene"
	"github.com/inodb/motif-mark/internal/iupac"
	"github.com/inodb/motif-mark/internal/motif"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// configName is the config file name in the home directory, without extension.
const configName = ".motif-mark"

var (
	cfgFile string
	verbose bool
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printHint(err)
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "motif-mark",
		Short: "Draw motif positions on exon/intron gene diagrams",
		Long: `motif-mark reads a FASTA file of genes (exon upper case, introns lower case)
and a list of up to five IUPAC motifs, finds every occurrence of every motif,
and draws each gene with its exon block and coloured motif marks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.motif-mark.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newMarkCmd())
	cmd.AddCommand(newHitsCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "motif-mark version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// initConfig loads the config file if present. A missing file is not an error.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("MOTIF_MARK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (cfgFile == "" && os.IsNotExist(err)) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	return cfg.Build()
}

func printHint(err error) {
	var (
		terr *motif.TooManyMotifsError
		uerr *iupac.UnknownCodeError
		nerr *gene.NoExonFoundError
	)
	switch {
	case errors.As(err, &terr):
		fmt.Fprintf(os.Stderr, "Hint: at most %d motifs can be drawn; trim the motif file\n", motif.MaxMotifs)
	case errors.As(err, &uerr):
		fmt.Fprintf(os.Stderr, "Hint: motifs may only use the IUPAC codes %s\n", string(iupac.Codes()))
	case errors.As(err, &nerr):
		fmt.Fprintf(os.Stderr, "Hint: each record needs an uppercase exon (exactly one with --strict); use --lenient to skip bad records\n")
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
	}
}

// defaultOutput places the image next to the FASTA file.
func defaultOutput(fastaPath, format string) string {
	if fastaPath == "-" || fastaPath == "" {
		return "motif_marked." + format
	}
	base := strings.TrimSuffix(filepath.Base(fastaPath), ".gz")
	for _, ext := range []string{".fasta", ".fna", ".fa"} {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(filepath.Dir(fastaPath), base+"_motif_marked."+format)
}
