// Package main provides the contentflow command line: generate content from a
// file, stdin or a web page, then optionally hand it to the automation
// pipeline, preview the blog post or publish it.
// Usage: contentflow [-in FILE | -url URL] [-tone professional|witty|technical]
//
//	[-send] [-preview] [-publish] [-title T] [-tags a,b] [-output text|json]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"contentflow/internal/config"
	"contentflow/internal/domain/entity"
	"contentflow/internal/handler/http/requestid"
	"contentflow/internal/infra/fetcher"
	"contentflow/internal/infra/github"
	"contentflow/internal/infra/llm"
	"contentflow/internal/infra/markdown"
	"contentflow/internal/infra/webhook"
	"contentflow/internal/observability/logging"
	"contentflow/internal/usecase/content"
	"contentflow/internal/usecase/importer"
	"contentflow/internal/usecase/publish"
	"contentflow/internal/usecase/workflow"
)

// options are the parsed command-line flags.
type options struct {
	In      string
	URL     string
	Tone    string
	Send    bool
	Preview bool
	Publish bool
	Title   string
	Tags    string
	Output  string
	Timeout time.Duration
}

// Output is the JSON document printed with -output json.
type Output struct {
	RequestID string                  `json:"requestId"`
	Source    *entity.ImportedArticle `json:"source,omitempty"`
	Result    entity.ContentResult    `json:"result"`
	Workflow  *entity.WorkflowOutcome `json:"workflow,omitempty"`
	Preview   *markdown.Preview       `json:"preview,omitempty"`
	Commit    *entity.CommitResult    `json:"commit,omitempty"`
}

// errStepFailed reports that generation succeeded but a follow-up step did
// not. The output has already been printed.
var errStepFailed = errors.New("one or more steps failed")

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.LoadFromEnv(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout stays parseable.
	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	ctx = logging.WithLogger(ctx, logger)

	if err := run(ctx, cfg, opts, os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, errStepFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("contentflow", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.In, "in", "-", "Source text file, - for stdin")
	fs.StringVar(&opts.URL, "url", "", "Import the source text from a web page instead of -in")
	fs.StringVar(&opts.Tone, "tone", string(entity.DefaultTone), "Social post tone: professional, witty or technical")
	fs.BoolVar(&opts.Send, "send", false, "Send the result to the automation webhook")
	fs.BoolVar(&opts.Preview, "preview", false, "Render the blog post draft")
	fs.BoolVar(&opts.Publish, "publish", false, "Commit the blog post to the repository")
	fs.StringVar(&opts.Title, "title", "", "Override the post title")
	fs.StringVar(&opts.Tags, "tags", "", "Comma-separated post tags (default: derived from the content)")
	fs.StringVar(&opts.Output, "output", "text", "Output format: text or json")
	fs.DurationVar(&opts.Timeout, "timeout", 3*time.Minute, "Overall time limit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.Output != "text" && opts.Output != "json" {
		fmt.Fprintf(stderr, "Error: Invalid output '%s' (must be 'text' or 'json')\n", opts.Output)
		return options{}, errors.New("invalid output")
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments %v\n", fs.Args())
		return options{}, errors.New("unexpected arguments")
	}
	return opts, nil
}

// run executes the requested steps and writes the report to stdout.
// Generation errors abort; failures of the later steps are reported in the
// output and turn into errStepFailed.
func run(ctx context.Context, cfg *config.AppConfig, opts options, stdin io.Reader, stdout io.Writer) error {
	ctx, reqID := requestid.Ensure(ctx)
	logger := logging.FromContext(ctx)

	tone, err := entity.ParseTone(opts.Tone)
	if err != nil {
		return err
	}

	completer, err := llm.New(cfg.LLM)
	if err != nil {
		return err
	}
	generator := content.NewService(completer)

	out := Output{RequestID: reqID}

	source, err := readSource(ctx, cfg, opts, stdin, &out)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "generating content",
		slog.String("provider", completer.Name()),
		slog.String("tone", string(tone)),
		slog.Int("content_length", len(source)))
	result, err := generator.ProcessContent(ctx, source, tone)
	if err != nil {
		return err
	}
	out.Result = result

	failed := false
	if opts.Send {
		svc := &workflow.Service{Dispatcher: webhook.NewClient(cfg.Webhook), Generator: generator}
		outcome := svc.Send(ctx, result, source, tone)
		out.Workflow = &outcome
		failed = failed || !(outcome.Success || outcome.Skipped)
	}

	if opts.Preview || opts.Publish {
		publisher := publish.NewService(github.NewClient(cfg.Repository))
		post := publisher.NewDraft(result, source)
		if err := publish.ApplyEdit(post, editFrom(opts)); err != nil {
			return err
		}

		if opts.Preview {
			preview, err := publisher.Preview(post)
			if err != nil {
				return err
			}
			out.Preview = &preview
		}
		if opts.Publish {
			commit := publisher.Publish(ctx, post)
			out.Commit = &commit
			failed = failed || !commit.Success
		}
	}

	if err := write(stdout, opts.Output, out); err != nil {
		return err
	}
	if failed {
		return errStepFailed
	}
	return nil
}

func readSource(ctx context.Context, cfg *config.AppConfig, opts options, stdin io.Reader, out *Output) (string, error) {
	if opts.URL != "" {
		svc := &importer.Service{Fetcher: fetcher.NewReadabilityFetcher(cfg.Fetch)}
		article, err := svc.Import(ctx, opts.URL)
		if err != nil {
			return "", err
		}
		out.Source = &article
		return importer.SourceText(article), nil
	}

	var r io.Reader = stdin
	if opts.In != "-" {
		f, err := os.Open(opts.In)
		if err != nil {
			return "", err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	// Read one rune past the limit so oversized input is still rejected.
	data, err := io.ReadAll(io.LimitReader(r, int64(entity.MaxContentLength*4+4)))
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}

func editFrom(opts options) publish.Edit {
	var e publish.Edit
	if opts.Title != "" {
		e.Title = &opts.Title
	}
	if opts.Tags != "" {
		e.Tags = &opts.Tags
	}
	return e
}

func write(w io.Writer, format string, out Output) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	var b strings.Builder
	if out.Source != nil {
		fmt.Fprintf(&b, "Source: %s (%s)\n\n", out.Source.Title, out.Source.URL)
	}
	fmt.Fprintf(&b, "SEO Title:\n%s\n\n", out.Result.SEOTitle)
	fmt.Fprintf(&b, "Meta Description:\n%s\n\n", out.Result.MetaDescription)
	b.WriteString("Summary:\n")
	for _, s := range out.Result.Summary {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	fmt.Fprintf(&b, "\nTwitter:\n%s\n\nLinkedIn:\n%s\n", out.Result.SocialPosts.Twitter, out.Result.SocialPosts.LinkedIn)

	if o := out.Workflow; o != nil {
		switch {
		case o.Success:
			fmt.Fprintf(&b, "\nWorkflow: sent (HTTP %d)\n", o.StatusCode)
		case o.Skipped:
			fmt.Fprintf(&b, "\nWorkflow: accepted, no run (HTTP %d)\n", o.StatusCode)
		default:
			fmt.Fprintf(&b, "\nWorkflow: failed: %s\n", o.Error)
		}
	}
	if out.Preview != nil {
		fmt.Fprintf(&b, "\n%s", out.Preview.Full)
		if !strings.HasSuffix(out.Preview.Full, "\n") {
			b.WriteByte('\n')
		}
	}
	if c := out.Commit; c != nil {
		if c.Success {
			fmt.Fprintf(&b, "\nPublished: %s\n", c.URL)
		} else {
			fmt.Fprintf(&b, "\nPublish failed: %s\n", c.Error)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
