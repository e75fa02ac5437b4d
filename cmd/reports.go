package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/ranking"
	"github.com/spigell/jd-matcher/internal/report"
)

const PromptBack = "back"

var reportsCmd = &cobra.Command{
	Use:   "reports [jd file]",
	Short: "Browse stored comparison reports",
	Long: "Without arguments the stored reports are listed for interactive selection. " +
		"With a job description file name its report is printed directly.",
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		store := report.NewStore(viper.GetString("reports.dir"))

		var err error
		if len(args) == 1 {
			err = showReport(os.Stdout, store, args[0])
		} else {
			err = browseReports(os.Stdout, store)
		}
		if err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
}

func showReport(w io.Writer, store *report.Store, jdID string) error {
	results, err := store.Load(jdID)
	if err != nil {
		return fmt.Errorf("reading report for %s: %w", jdID, err)
	}
	printReport(w, jdID, results)
	return nil
}

func browseReports(w io.Writer, store *report.Store) error {
	for {
		entries, err := store.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintf(w, "No reports found in %s\n", store.Dir())
			return nil
		}

		items := make([]string, 0, len(entries)+1)
		for _, e := range entries {
			items = append(items, fmt.Sprintf("%s (%s)", e.Name, e.Modified.Format("2006-01-02 15:04")))
		}

		reportPrompt := promptui.Select{
			Label: "Choose a report and press ENTER",
			Items: append(items, PromptBack),
		}

		idx, selected, err := reportPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		results, err := report.Read(entries[idx].Path)
		if err != nil {
			return err
		}
		printReport(w, entries[idx].Name, results)
	}
}

func printReport(w io.Writer, name string, results []ai.ComparisonResult) {
	fmt.Fprintf(w, "\nReport: %s (%d profiles)\n", name, len(results))
	if len(results) == 0 {
		fmt.Fprintln(w, "No comparisons recorded.")
		return
	}

	for i, r := range ranking.Rank(results) {
		fmt.Fprintf(w, "  %d. %s (%s) - Score: %.2f\n", i+1, r.ProfileName, r.ApplicantName, r.SimilarityScore)
		for _, line := range strings.Split(strings.TrimSpace(r.Reasoning), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				fmt.Fprintf(w, "     %s\n", line)
			}
		}
	}
}
