package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Joseda-hg/lazystandup/internal/archive"
	"github.com/Joseda-hg/lazystandup/internal/markdown"
	"github.com/Joseda-hg/lazystandup/internal/standup"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Print a standup document as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print today's standup from the todo list",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write today's standup to the standups directory and clear done todos",
	Args:  cobra.NoArgs,
	RunE:  runSave,
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List dates that have a standup, newest first",
	Args:  cobra.NoArgs,
	RunE:  runDates,
}

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Render a standup in the terminal",
	Long:  "Render the standup for date (YYYY-MM-DD), or the latest one when no date is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

var (
	parseFormat string
	datesDays   int
	showWidth   int
	showRaw     bool
)

func init() {
	rootCmd.AddCommand(parseCmd, generateCmd, saveCmd, datesCmd, showCmd)
	parseCmd.Flags().StringVar(&parseFormat, "format", "json", "output format (json, yaml)")
	datesCmd.Flags().IntVar(&datesDays, "days", archive.IndexDays, "how many days back to look")
	showCmd.Flags().IntVar(&showWidth, "width", 0, "wrap width (default terminal width)")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print the markdown as stored")
}

func runParse(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	parsed := standup.Parse(string(data))
	out := cmd.OutOrStdout()
	switch parseFormat {
	case "json":
		encoded, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(encoded))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(parsed); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (valid: json, yaml)", parseFormat)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprint(cmd.OutOrStdout(), a.todos.Generate())
	return nil
}

func runSave(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	filename, err := a.todos.SaveAndArchive(cmd.Context(), a.todos.Generate())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", filepath.Join(a.sink.Path, filename))
	return nil
}

func runDates(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	dates := a.resolver.Available(cmd.Context(), a.now(), datesDays)
	if len(dates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no standups found")
		return nil
	}
	for _, date := range dates {
		fmt.Fprintln(cmd.OutOrStdout(), date)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var doc archive.Document
	if len(args) == 1 {
		if _, err := standup.ParseISODate(args[0]); err != nil {
			return fmt.Errorf("invalid date %q", args[0])
		}
		doc, err = a.resolver.Fetch(cmd.Context(), args[0])
	} else {
		doc, err = a.latest(cmd.Context())
	}
	if err != nil {
		return err
	}

	if showRaw {
		fmt.Fprint(cmd.OutOrStdout(), doc.Content)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), markdown.Terminal(terminalWidth(showWidth), doc.Content))
	return nil
}

func terminalWidth(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}
