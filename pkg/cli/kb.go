package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	f := kbIngestCmd.Flags()
	f.StringVar(&kbTitle, "title", "", "Document title (defaults to the page title for --url)")
	f.StringVar(&kbTags, "tags", "", "Comma separated tags")
	f.StringVar(&kbFile, "file", "", "Plain text file to ingest")
	f.StringVar(&kbURL, "url", "", "Allow-listed page to fetch and ingest")
	f.StringVar(&kbSource, "source", "", "Source URL recorded for --file")
	kbIngestCmd.MarkFlagsMutuallyExclusive("file", "url")
	kbIngestCmd.MarkFlagsOneRequired("file", "url")

	kbCmd.AddCommand(kbIngestCmd)
	rootCmd.AddCommand(kbCmd)
}

var (
	kbTitle  string
	kbTags   string
	kbFile   string
	kbURL    string
	kbSource string
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the knowledge base used as plan context",
}

var kbIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Add a document to the knowledge base",
	RunE:  runKBIngest,
}

func runKBIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if kbURL != "" {
		doc, n, err := a.kb.IngestURL(ctx, kbURL, kbTitle, kbTags)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "doc %d %q: %d chunks\n", doc.DocID, doc.Title, n)
		return nil
	}

	if kbTitle == "" {
		return errors.New("--title is required with --file")
	}
	b, err := os.ReadFile(kbFile)
	if err != nil {
		return err
	}
	doc, n, err := a.kb.UpsertDocument(ctx, kbTitle, kbTags, string(b), kbSource)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "doc %d %q: %d chunks\n", doc.DocID, doc.Title, n)
	return nil
}
