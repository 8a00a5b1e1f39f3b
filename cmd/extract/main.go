package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
	"github.com/CarlyGallagher/christmas-planner/internal/infrastructure/linkpreview"
	"github.com/CarlyGallagher/christmas-planner/internal/infrastructure/webpage"
	"github.com/CarlyGallagher/christmas-planner/internal/logging"
	"github.com/CarlyGallagher/christmas-planner/internal/usecase"
)

var version = "dev"

const manualEntryHint = "Hint: add the item manually with its name, price and image."

type options struct {
	userAgent     string
	timeout       time.Duration
	linkPreview   bool
	previewAPIKey string
	previewURL    string
	jsonOutput    bool
	verbose       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "extract [URL]",
		Short:   "Fill in a wishlist item from a product page",
		Version: version,
		Long: `extract fetches a product page and prints the title, image, description
and price found in its markup. Nothing is executed in a browser, so pages that
render their details with JavaScript may yield only part of the record.`,
		Example: `  # Print the extracted fields
  extract https://www.example.com/products/sled

  # Emit JSON and ask the link-preview service first
  PLANNER_LINKPREVIEW_API_KEY=... extract --link-preview --json https://www.example.com/products/sled`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.userAgent, "user-agent", "A", webpage.DefaultUserAgent, "User-Agent sent to the store")
	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", 30*time.Second, "Request timeout duration (0 for none)")
	cmd.Flags().BoolVar(&opts.linkPreview, "link-preview", false, "Ask the link-preview service before fetching the page")
	cmd.Flags().StringVar(&opts.previewAPIKey, "link-preview-key", os.Getenv("PLANNER_LINKPREVIEW_API_KEY"), "Link-preview API key, defaults to PLANNER_LINKPREVIEW_API_KEY env var")
	cmd.Flags().StringVar(&opts.previewURL, "link-preview-url", linkpreview.DefaultBaseURL, "Link-preview service base URL")
	cmd.Flags().BoolVarP(&opts.jsonOutput, "json", "j", false, "Print the result as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log each extraction step")

	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, target string, opts *options) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	if err := logging.Setup(level, "console"); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	fetcher := webpage.NewClient(opts.userAgent, opts.timeout)
	var preview domain.LinkPreviewClient
	if opts.linkPreview {
		preview = linkpreview.NewClient(opts.previewURL, opts.previewAPIKey, opts.userAgent, 0)
	}
	service := usecase.NewProductService(fetcher, preview)

	result, err := service.ExtractFromURL(ctx, target)
	noData := errors.Is(err, domain.ErrNoDataExtracted)
	if err != nil && !noData {
		if !errors.Is(err, domain.ErrInvalidInput) {
			fmt.Fprintln(stderr, manualEntryHint)
		}
		return fmt.Errorf("%s: %w", describeError(err), err)
	}

	if opts.jsonOutput {
		if err := writeJSON(stdout, result); err != nil {
			return err
		}
	} else {
		writeText(stdout, result)
	}

	if noData {
		fmt.Fprintln(stderr, "No product details found on that page.")
		fmt.Fprintln(stderr, manualEntryHint)
	}
	return nil
}

func describeError(err error) string {
	var fetchErr *domain.FetchError
	switch {
	case errors.As(err, &fetchErr):
		return fmt.Sprintf("the store answered with HTTP %d", fetchErr.StatusCode)
	case errors.Is(err, domain.ErrTransport):
		return "could not reach the store"
	case errors.Is(err, domain.ErrInvalidInput):
		return "not a product URL"
	default:
		return "extraction failed"
	}
}

type jsonResult struct {
	domain.Product
	FormattedPrice string `json:"formattedPrice,omitempty"`
	Platform       string `json:"platform,omitempty"`
	Source         string `json:"source"`
}

func writeJSON(w io.Writer, result *domain.Extraction) error {
	out := jsonResult{
		Product:  result.Product,
		Platform: result.Platform,
		Source:   string(result.Source),
	}
	if result.Product.Price > 0 {
		out.FormattedPrice = usecase.FormatPrice(result.Product.Price, result.Product.Currency)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, result *domain.Extraction) {
	p := result.Product
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-12s %s\n", label+":", value)
		}
	}

	field("URL", p.URL)
	field("Store", result.Platform)
	field("Title", p.Title)
	if p.Price > 0 {
		field("Price", usecase.FormatPrice(p.Price, p.Currency))
	}
	field("Image", p.ImageURL)
	field("Description", p.Description)
	field("Source", string(result.Source))
}
