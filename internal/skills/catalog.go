// Package skills holds the shared technology catalog used to detect skills
// in résumés and job descriptions.
package skills

import (
	"regexp"
	"sort"
	"strings"
)

// Catalog lists the recognised skills in their canonical lower-case form.
var Catalog = []string{
	"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "php",
	"html", "css", "sql", "nosql", "react", "angular", "vue", "node", "express",
	"django", "flask", "spring", "asp.net", "jquery", "bootstrap", "tailwind",
	"mongodb", "mysql", "postgresql", "oracle", "aws", "azure", "gcp", "docker",
	"kubernetes", "jenkins", "git", "github", "gitlab", "jira", "agile", "scrum",
	"machine learning", "artificial intelligence", "data science", "nlp", "neural networks",
	"tensorflow", "pytorch", "keras", "scikit-learn", "pandas", "numpy", "tableau",
	"power bi", "excel", "word", "powerpoint", "photoshop", "illustrator", "figma",
	"ui/ux", "mobile development", "ios", "android", "react native", "flutter", "swift",
	"kotlin", "objective-c", "devops", "ci/cd", "linux", "windows", "macos", "unix",
	"rest api", "graphql", "soap", "microservices", "testing", "junit", "selenium",
	"cypress", "jest", "mocha", "chai", "go", "golang", "rust", "scala", "terraform",
}

var patterns = compile(Catalog)

type pattern struct {
	skill string
	re    *regexp.Regexp
}

func compile(catalog []string) []pattern {
	out := make([]pattern, 0, len(catalog))
	for _, skill := range catalog {
		out = append(out, pattern{
			skill: skill,
			re:    regexp.MustCompile(`(?i)(?:^|[^\w+#])` + regexp.QuoteMeta(skill) + `(?:[^\w+#]|$)`),
		})
	}
	return out
}

// Detect returns the catalog skills mentioned in text, in catalog order.
func Detect(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var found []string
	for _, p := range patterns {
		if p.re.MatchString(text) {
			found = append(found, p.skill)
		}
	}
	return found
}

// Normalize lower-cases, trims and de-duplicates skills, returning them sorted.
func Normalize(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		set[value] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for value := range set {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
