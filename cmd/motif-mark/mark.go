package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/motif-mark/internal/layout"
	"github.com/inodb/motif-mark/internal/pipeline"
	"github.com/inodb/motif-mark/internal/render"
)

func newMarkCmd() *cobra.Command {
	var (
		fastaPath string
		motifPath string
		outPath   string
		hitsPath  string
		strict    bool
		lenient   bool
	)

	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Find motifs and draw the gene diagram",
		Example: `  motif-mark mark -f genes.fa -m motifs.txt
  motif-mark mark -f genes.fa -m motifs.txt -o genes.png
  motif-mark mark -f genes.fa.gz -m motifs.txt --hits hits.tsv --db hits.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			format := viper.GetString("render.format")
			if outPath != "" && !cmd.Flags().Changed("format") {
				format = render.FormatFromPath(outPath)
			}
			if outPath == "" {
				outPath = defaultOutput(fastaPath, format)
			}

			opts := pipeline.DefaultOptions()
			opts.Geometry.Scale = viper.GetFloat64("layout.scale")
			opts.Workers = viper.GetInt("workers")
			opts.Strict = strict
			opts.Lenient = lenient

			p := pipeline.New(opts)
			p.SetLogger(logger)

			d, err := p.Run(pipeline.RunConfig{
				FastaPath: fastaPath,
				MotifPath: motifPath,
				Output:    outPath,
				Format:    format,
				Canvas: render.Canvas{
					Width:  viper.GetInt("render.width"),
					Height: viper.GetInt("render.height"),
					Unit:   viper.GetFloat64("render.unit"),
				},
				HitsPath: hitsPath,
				DBPath:   viper.GetString("db"),
			})
			if err != nil {
				return err
			}

			logger.Info("motifs marked",
				zap.String("output", outPath),
				zap.Int("records", len(d.Results)),
				zap.Strings("skipped", d.Skipped))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&fastaPath, "fasta", "f", "", "FASTA file of genes, exons in upper case ('-' for stdin)")
	f.StringVarP(&motifPath, "motifs", "m", "", "file with one IUPAC motif per line (at most 5)")
	f.StringVarP(&outPath, "output", "o", "", "output image (default: <fasta>_motif_marked.<format>)")
	f.String("format", "svg", "output format: svg or png")
	f.StringVar(&hitsPath, "hits", "", "write motif hits as TSV to this file")
	f.String("db", "", "append motif hits to this DuckDB database")
	f.Int("workers", 0, "scan workers (0 = number of CPUs)")
	f.Float64("scale", layout.DefaultGeometry.Scale, "sequence positions per layout unit")
	f.Int("width", render.DefaultCanvas.Width, "image width in pixels")
	f.Int("height", render.DefaultCanvas.Height, "image height in pixels")
	f.Float64("unit", render.DefaultCanvas.Unit, "pixels per layout unit")
	f.BoolVar(&strict, "strict", false, "reject records with more than one uppercase run")
	f.BoolVar(&lenient, "lenient", false, "skip records that fail exon validation instead of failing")

	_ = cmd.MarkFlagRequired("fasta")
	_ = cmd.MarkFlagRequired("motifs")

	for key, flag := range map[string]string{
		"render.format": "format",
		"render.width":  "width",
		"render.height": "height",
		"render.unit":   "unit",
		"layout.scale":  "scale",
		"workers":       "workers",
		"db":            "db",
	} {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}

	return cmd
}
