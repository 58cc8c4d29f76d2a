package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jimezsa/fithire/internal/resume"
)

type EvaluateCmd struct {
	ProfileFlags
}

type evaluation struct {
	resume.Quality
	Skills            []string `json:"skills"`
	Education         []string `json:"education"`
	YearsOfExperience int      `json:"years_of_experience"`
}

func (e *EvaluateCmd) Run(ctx *Context) error {
	_, profile, err := e.profile()
	if err != nil {
		return err
	}
	result := evaluation{
		Quality:           resume.Evaluate(profile),
		Skills:            profile.Skills,
		Education:         profile.Education,
		YearsOfExperience: profile.YearsOfExperience,
	}

	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if ctx.PlainText {
		_, err := fmt.Fprintf(ctx.Out, "%s\t%d\t%s\t%s\t%d\n", result.Label, result.Points,
			strings.Join(result.Skills, ","), strings.Join(result.Education, ";"), result.YearsOfExperience)
		return err
	}

	fmt.Fprintf(ctx.Out, "Quality:    %s (%d points)\n", result.Label, result.Points)
	fmt.Fprintf(ctx.Out, "Skills:     %s\n", orDash(strings.Join(result.Skills, ", ")))
	fmt.Fprintf(ctx.Out, "Education:  %s\n", orDash(strings.Join(result.Education, "; ")))
	_, err = fmt.Fprintf(ctx.Out, "Experience: %d years\n", result.YearsOfExperience)
	return err
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
