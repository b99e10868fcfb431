package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vflor92/REanalyzer/internal/extract"
	"github.com/vflor92/REanalyzer/internal/intake"
	"github.com/vflor92/REanalyzer/pkg/anthropic"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse an offering memorandum (PDF or text) and print the extraction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read %s", args[0])
		}

		req := intake.ParseRequest{}
		if strings.EqualFold(filepath.Ext(args[0]), ".pdf") {
			req.PDF = buf
		} else {
			req.RawText = string(buf)
		}

		extractor := extract.NewExtractor(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)
		result, err := intake.NewService(extractor).ParseOM(cmd.Context(), req)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal result")
		}
		cmd.Println(string(out))

		p := message.NewPrinter(language.AmericanEnglish)
		if result.SizeAcres.Value != nil && result.AskPriceTotal.Value != nil {
			p.Fprintf(cmd.OutOrStdout(), "\n%.2f acres at $%.0f total\n",
				*result.SizeAcres.Value, *result.AskPriceTotal.Value)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
