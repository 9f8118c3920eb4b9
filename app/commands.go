package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pagekeep/pagekeep/app/document"
	"github.com/pagekeep/pagekeep/app/export"
	"github.com/pagekeep/pagekeep/app/extract"
	"github.com/pagekeep/pagekeep/app/preferences"
)

var (
	flagTags      []string
	flagNoArchive bool
	flagDryRun    bool
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Fetch a URL and add it to the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		return p.Ingest(cmd.Context(), args[0], flagTags, !flagNoArchive, flagDryRun)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search among indexed documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		hits, err := p.Index.Search(args[0])
		if err != nil {
			return err
		}

		for _, hit := range hits {
			fmt.Printf("%v  %v\n", hit.UUID, hit.Title)

			if doc, err := p.DB.GetDocument(cmd.Context(), hit.UUID); err == nil && doc != nil {
				fmt.Printf("      url: %v\n", doc.URL)
				fmt.Printf("    added: %v\n", doc.Time.Format("2006-01-02"))
				if tags := tagsOf(doc); len(tags) > 0 {
					fmt.Printf("     tags: %v\n", strings.Join(tags, ", "))
				}
			}
			if hit.Snippet != "" {
				fmt.Printf("  snippet: %v\n", hit.Snippet)
			}
			fmt.Println()
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <uuid>",
	Short: "Print a document's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid uuid: %w", err)
		}

		p, err := openPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		doc, err := p.DB.GetDocument(cmd.Context(), id)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("no document with uuid %v", id)
		}

		if webpage, ok := doc.Content.(*document.WebPage); ok && webpage.RichText != nil {
			fmt.Printf("# %v\n\n%v\n", doc.Title, *webpage.RichText)
		} else {
			fmt.Printf("%v\n\n%v\n", doc.Title, doc.Content.PlainText())
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		docs, err := p.DB.ListDocuments(cmd.Context())
		if err != nil {
			return err
		}

		for _, doc := range docs {
			fmt.Printf("%v  %-8v  %v\n", doc.UUID, doc.Content.Kind(), doc.Title)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <uuid>",
	Short: "Remove a document from the index and the metadata store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid uuid: %w", err)
		}

		p, err := openPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		return p.Delete(cmd.Context(), id)
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Replay archived snapshots into the index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		report, err := p.Recover(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Recovered %v snapshot(s), skipped %v, failed %v.\n",
			report.Recovered, report.Skipped, len(report.Failed))
		for _, failure := range report.Failed {
			fmt.Printf("  %v: %v\n", failure.Path, failure.Err)
		}
		return nil
	},
}

var flagOutput string

var exportCmd = &cobra.Command{
	Use:   "export <uuid>",
	Short: "Export a document as PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid uuid: %w", err)
		}

		p, err := openPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		doc, err := p.DB.GetDocument(cmd.Context(), id)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("no document with uuid %v", id)
		}

		out := flagOutput
		if out == "" {
			out = id.String() + ".pdf"
		}
		if err := export.PDF(doc, out); err != nil {
			return err
		}
		fmt.Printf("Exported to %v.\n", out)
		return nil
	},
}

func tagsOf(doc *document.Document) []string {
	raw, ok := doc.Metadata["tag"].([]any)
	if !ok {
		return nil
	}
	var tags []string
	for _, t := range raw {
		if s, ok := t.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

func init() {
	addCmd.Flags().StringArrayVarP(&flagTags, "tag", "t", nil, "Add a tag (can be used repeatedly)")
	addCmd.Flags().BoolVar(&flagNoArchive, "no-archive", false, "Do not archive this source")
	addCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Validate fetching and assembly without writing anything")
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file (default: <uuid>.pdf)")

	rootCmd.AddCommand(addCmd, searchCmd, getCmd, listCmd, deleteCmd, recoverCmd, exportCmd, prefsCmd)
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage per-URL preferences",
}

var (
	flagBlacklist   bool
	flagContentType string
	flagExtractor   string
	flagPrefTags    []string
)

var prefsSetCmd = &cobra.Command{
	Use:   "set <pattern>",
	Short: "Set preferences for a URL glob pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagBlacklist && (flagContentType != "" || flagExtractor != "" || len(flagPrefTags) > 0) {
			return fmt.Errorf("--blacklist cannot be combined with other preferences")
		}

		value := preferences.Blacklist
		if !flagBlacklist {
			prefs := &preferences.Preferences{
				ContentType: flagContentType,
				Tags:        flagPrefTags,
			}
			if flagExtractor != "" {
				if _, err := extract.New(flagExtractor); err != nil {
					return fmt.Errorf("%w (known: %v)", err, strings.Join(extract.Names(), ", "))
				}
				prefs.Extract = &extract.Selection{Name: flagExtractor}
			}
			encoded, err := preferences.Encode(prefs)
			if err != nil {
				return err
			}
			value = encoded
		}

		p, err := openPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		return p.DB.SetPreference(cmd.Context(), args[0], value)
	},
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored preference patterns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		rows, err := p.DB.ListPreferenceRows(cmd.Context())
		if err != nil {
			return err
		}
		for _, row := range rows {
			fmt.Printf("%v\t%v\n", row.Pattern, row.Value)
		}
		return nil
	},
}

var prefsDeleteCmd = &cobra.Command{
	Use:   "delete <pattern>",
	Short: "Remove preferences for a URL glob pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		return p.DB.DeletePreference(cmd.Context(), args[0])
	},
}

func init() {
	prefsSetCmd.Flags().BoolVar(&flagBlacklist, "blacklist", false, "Forbid ingestion of matching URLs")
	prefsSetCmd.Flags().StringVar(&flagContentType, "content-type", "", "Override the content type reported by the server")
	prefsSetCmd.Flags().StringVar(&flagExtractor, "extractor", "", "Extractor to use for matching URLs")
	prefsSetCmd.Flags().StringArrayVar(&flagPrefTags, "tag", nil, "Tag added to every matching document (can be used repeatedly)")

	prefsCmd.AddCommand(prefsSetCmd, prefsListCmd, prefsDeleteCmd)
}
