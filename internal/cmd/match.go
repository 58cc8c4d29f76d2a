package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jimezsa/fithire/internal/config"
	"github.com/jimezsa/fithire/internal/export"
	"github.com/jimezsa/fithire/internal/extract"
	"github.com/jimezsa/fithire/internal/match"
	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/resume"
	"github.com/jimezsa/fithire/internal/seen"
)

// ProfileFlags describe the resume either as a document or field by field.
type ProfileFlags struct {
	Resume    string `arg:"" optional:"" help:"Resume document (.pdf, .docx, .txt). Omit to use the manual flags."`
	Title     string `help:"Desired job title (manual entry)."`
	Industry  string `help:"Industry (manual entry)."`
	Summary   string `help:"Professional summary (manual entry)."`
	Skills    string `help:"Comma-separated skills (manual entry)."`
	Education string `help:"Semicolon-separated education entries (manual entry)."`
	Years     int    `help:"Years of experience (manual entry)."`
}

func (f ProfileFlags) manual() bool {
	return strings.TrimSpace(f.Title+f.Industry+f.Summary+f.Skills+f.Education) != "" || f.Years > 0
}

// profile returns the text used for ranking and the graded profile.
func (f ProfileFlags) profile() (string, models.ResumeProfile, error) {
	path := strings.TrimSpace(f.Resume)
	switch {
	case path != "" && f.manual():
		return "", models.ResumeProfile{}, fmt.Errorf("pass a resume file or manual flags, not both")
	case path != "":
		text, err := extract.Extract(path)
		if err != nil {
			if errors.Is(err, extract.ErrUnsupportedFormat) {
				return "", models.ResumeProfile{}, fmt.Errorf("%w: supported formats are %s", err, strings.Join(extract.Supported, ", "))
			}
			return "", models.ResumeProfile{}, err
		}
		if strings.TrimSpace(text) == "" {
			return "", models.ResumeProfile{}, fmt.Errorf("no text found in %s", path)
		}
		profile := resume.WithQuality(resume.FromText(text))
		return text, profile, nil
	case f.manual():
		profile := resume.WithQuality(resume.FromManual(resume.ManualEntry{
			JobTitle:          f.Title,
			Industry:          f.Industry,
			Summary:           f.Summary,
			Skills:            config.SplitCSV(f.Skills),
			Education:         strings.Split(f.Education, ";"),
			YearsOfExperience: f.Years,
		}))
		return profile.RawText, profile, nil
	default:
		return "", models.ResumeProfile{}, fmt.Errorf("a resume file or at least one manual flag is required")
	}
}

type MatchCmd struct {
	ProfileFlags
	OutputOptions
	Top        int    `help:"Number of matches to return (default: config top_n)."`
	Seen       string `help:"Path to a seen jobs JSON file."`
	NewOnly    bool   `help:"Output only matches not in --seen."`
	SeenUpdate bool   `help:"Add the printed matches to --seen after output."`
}

func (m *MatchCmd) Run(ctx *Context) error {
	if (m.NewOnly || m.SeenUpdate) && strings.TrimSpace(m.Seen) == "" {
		return fmt.Errorf("--new-only and --seen-update require --seen")
	}
	if pathsEqual(m.Output, m.Seen) {
		return fmt.Errorf("--output path must differ from --seen")
	}

	text, profile, err := m.profile()
	if err != nil {
		return err
	}
	if ctx.UI != nil {
		ctx.UI.Warnf("Resume quality: %s", ctx.UI.Quality(profile.QualityLabel))
	}

	runCtx, cancel := signalContext()
	defer cancel()

	st, err := ctx.OpenStore(runCtx)
	if err != nil {
		return err
	}
	defer st.Close()

	results, err := match.NewEngine(st, ctx.Logger).FindMatches(runCtx, text, profile, defaultInt(m.Top, ctx.Config.TopN))
	if err != nil {
		return err
	}

	var history *seen.History
	if strings.TrimSpace(m.Seen) != "" {
		history, err = seen.Load(m.Seen)
		if err != nil {
			return fmt.Errorf("read --seen: %w", err)
		}
		if m.NewOnly {
			var stats seen.FilterStats
			results, stats = history.Filter(results)
			ctx.Logger.Debug().Int("total", stats.Total).Int("seen", stats.Seen).Int("unseen", stats.Unseen).Msg("seen filter")
		}
	}

	if err := writeMatches(ctx, results, m.OutputOptions); err != nil {
		return err
	}

	if m.SeenUpdate && history != nil {
		jobs := make([]models.JobPosting, len(results))
		for i, r := range results {
			jobs[i] = r.JobPosting
		}
		added := history.Add(jobs...)
		if err := seen.Save(m.Seen, history); err != nil {
			return fmt.Errorf("write --seen: %w", err)
		}
		ctx.Logger.Debug().Int("added", added).Str("path", m.Seen).Msg("seen history updated")
	}
	return nil
}

func writeMatches(ctx *Context, results []models.MatchResult, opts OutputOptions) error {
	format, err := resolveFormat(ctx, opts)
	if err != nil {
		return err
	}
	w, closeFn, err := openOutput(ctx, opts)
	if err != nil {
		return err
	}
	if err := export.WriteMatches(w, results, format, writeOptions(ctx, w, opts)); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
