package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/fithire/internal/models"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatTable, FormatCSV, FormatJSON, FormatMarkdown, FormatTSV:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported format: %s", value)
}

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

// row is one output line; score is nil for plain job listings.
type row struct {
	job   models.JobPosting
	score *float64
}

// WriteMatches renders ranked matches, best first, with a score column.
func WriteMatches(w io.Writer, results []models.MatchResult, format Format, opts WriteOptions) error {
	if format == FormatJSON {
		if results == nil {
			results = []models.MatchResult{}
		}
		return writeJSON(w, results)
	}
	rows := make([]row, len(results))
	for i := range results {
		rows[i] = row{job: results[i].JobPosting, score: &results[i].Score}
	}
	return write(w, rows, true, format, opts)
}

// WriteJobs renders stored postings.
func WriteJobs(w io.Writer, jobs []models.JobPosting, format Format, opts WriteOptions) error {
	if format == FormatJSON {
		if jobs == nil {
			jobs = []models.JobPosting{}
		}
		return writeJSON(w, jobs)
	}
	rows := make([]row, len(jobs))
	for i, job := range jobs {
		rows[i] = row{job: job}
	}
	return write(w, rows, false, format, opts)
}

func write(w io.Writer, rows []row, scored bool, format Format, opts WriteOptions) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, rows, scored, ',')
	case FormatTSV:
		return writeCSV(w, rows, scored, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, rows)
	default:
		return writeTable(w, rows, scored, opts)
	}
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeCSV(w io.Writer, rows []row, scored bool, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader(scored)); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write(csvRow(r, scored)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, rows []row, scored bool, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(scored), "\t"))
	output := termenv.NewOutput(w)
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(tableRow(r, scored, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, rows []row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, r := range rows {
		job := r.job
		heading := fmt.Sprintf("- **%s** (%s)", safe(job.Title), safe(job.Company))
		if r.score != nil {
			heading += fmt.Sprintf(" %s%%", formatScore(*r.score))
		}
		urlLine := "  URL: -"
		if link := safe(job.ApplicationLink); link != "" {
			urlLine = fmt.Sprintf("  URL: [Open listing](<%s>)", link)
		}
		lines := []string{
			heading,
			fmt.Sprintf("  Location: %s", safe(job.Location)),
			fmt.Sprintf("  Source: %s", safe(job.Source)),
			urlLine,
		}
		if !job.PostedDate.IsZero() {
			lines = append(lines, fmt.Sprintf("  Posted: %s", job.PostedDate.Format(models.DateLayout)))
		}
		if len(job.SkillsRequired) > 0 {
			lines = append(lines, fmt.Sprintf("  Skills: %s", strings.Join(job.SkillsRequired, ", ")))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader(scored bool) []string {
	header := []string{
		"source",
		"title",
		"company",
		"location",
		"url",
		"skills",
		"posted_date",
		"description",
	}
	if scored {
		return append([]string{"score"}, header...)
	}
	return header
}

func csvRow(r row, scored bool) []string {
	job := r.job
	posted := ""
	if !job.PostedDate.IsZero() {
		posted = job.PostedDate.Format(models.DateLayout)
	}
	out := []string{
		job.Source,
		job.Title,
		job.Company,
		job.Location,
		job.ApplicationLink,
		strings.Join(job.SkillsRequired, ", "),
		posted,
		job.Description,
	}
	if scored {
		return append([]string{formatScore(*r.score)}, out...)
	}
	return out
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader(scored bool) []string {
	header := []string{
		"source",
		"title",
		"company",
		"posted",
		"url",
	}
	if scored {
		return append([]string{"score"}, header...)
	}
	return header
}

func tableRow(r row, scored bool, output *termenv.Output, opts WriteOptions) []string {
	const linkColor = "#87CEEB"
	job := r.job

	link := safe(job.ApplicationLink)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}
	posted := "-"
	if !job.PostedDate.IsZero() {
		posted = job.PostedDate.Format(models.DateLayout)
	}
	cells := []string{
		safe(job.Source),
		safe(job.Title),
		safe(job.Company),
		posted,
		displayURL,
	}
	if scored {
		return append([]string{formatScore(*r.score)}, cells...)
	}
	return cells
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
