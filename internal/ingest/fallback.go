package ingest

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/jimezsa/fithire/internal/models"
)

// SampleSource marks postings that come from the built-in sample set.
const SampleSource = "sample"

// SampleJobs returns the built-in postings stored when no source yields
// anything, so matching always has a corpus to rank.
func SampleJobs() []models.JobPosting {
	return []models.JobPosting{
		{
			Title:          "Software Engineer",
			Company:        "TechCorp Inc.",
			Description:    "We are looking for a software engineer with experience in Python, Flask, and SQL. The ideal candidate will have 3+ years of experience in web development and be comfortable working in a fast-paced environment.",
			Location:       "San Francisco, CA",
			SkillsRequired: []string{"Python", "Flask", "SQL", "Git"},
		},
		{
			Title:          "Data Scientist",
			Company:        "DataAnalytics Co.",
			Description:    "Seeking a data scientist with strong background in machine learning, NLP, and data visualization. Must be proficient in Python, PyTorch or TensorFlow, and have experience with large datasets.",
			Location:       "Remote",
			SkillsRequired: []string{"Python", "ML", "NLP", "PyTorch", "SQL"},
		},
		{
			Title:          "Frontend Developer",
			Company:        "WebUI Systems",
			Description:    "Frontend developer needed for our growing team. Experience with React, TypeScript, and modern CSS frameworks required. Knowledge of UI/UX principles a plus.",
			Location:       "Boston, MA",
			SkillsRequired: []string{"JavaScript", "TypeScript", "React", "CSS", "HTML"},
		},
		{
			Title:          "DevOps Engineer",
			Company:        "CloudNative Ltd",
			Description:    "Looking for a DevOps engineer to help build and maintain our cloud infrastructure. Experience with AWS, Docker, and CI/CD pipelines is essential.",
			Location:       "Seattle, WA",
			SkillsRequired: []string{"AWS", "Docker", "Kubernetes", "CI/CD", "Linux"},
		},
		{
			Title:          "Product Manager",
			Company:        "ProductSuite Inc.",
			Description:    "Experienced product manager needed to lead development of our SaaS platform. Must have experience in agile methodologies and a technical background.",
			Location:       "New York, NY",
			SkillsRequired: []string{"Agile", "Jira", "Product Development", "SaaS"},
		},
		{
			Title:          "Full Stack Developer",
			Company:        "WebStack Solutions",
			Description:    "Full stack developer needed with experience in Node.js and React. Should be comfortable with both frontend and backend development.",
			Location:       "Austin, TX",
			SkillsRequired: []string{"JavaScript", "Node.js", "React", "MongoDB", "Express"},
		},
		{
			Title:          "AI Research Engineer",
			Company:        "AI Innovations",
			Description:    "Research engineer needed for cutting-edge AI projects. PhD in machine learning or related field preferred. Experience with NLP models a plus.",
			Location:       "Pittsburgh, PA",
			SkillsRequired: []string{"Python", "PyTorch", "NLP", "Research"},
		},
		{
			Title:          "UX/UI Designer",
			Company:        "DesignThink Co.",
			Description:    "Creative designer needed for our product team. Experience with Figma and Adobe suite required. Portfolio must demonstrate strong UI/UX skills.",
			Location:       "Los Angeles, CA",
			SkillsRequired: []string{"Figma", "Adobe XD", "UI Design", "User Research"},
		},
		{
			Title:          "Mobile Developer",
			Company:        "AppWorks Inc.",
			Description:    "Looking for a mobile developer with experience in React Native or Flutter. Must be able to build and deploy cross-platform mobile applications.",
			Location:       "Chicago, IL",
			SkillsRequired: []string{"React Native", "Flutter", "JavaScript", "Mobile Development"},
		},
		{
			Title:          "Machine Learning Engineer",
			Company:        "ML Technologies",
			Description:    "Machine learning engineer needed to develop and deploy ML models. Experience with Python, scikit-learn, and model deployment required.",
			Location:       "Denver, CO",
			SkillsRequired: []string{"Python", "scikit-learn", "TensorFlow", "ML Ops"},
		},
	}
}

// Seed stamps fallback postings with the sample source, today's date and a
// stable synthetic link when they have none.
func Seed(jobs []models.JobPosting, today time.Time) []models.JobPosting {
	out := make([]models.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if job.Source == "" {
			job.Source = SampleSource
		}
		if job.ApplicationLink == "" {
			job.ApplicationLink = SampleLink(job)
		}
		if job.PostedDate.IsZero() {
			job.PostedDate = models.Day(today)
		}
		out = append(out, job)
	}
	return out
}

// SampleLink derives sample://<hash> from the posting's title and company.
func SampleLink(job models.JobPosting) string {
	sum := sha1.Sum([]byte(strings.ToLower(job.Title) + "|" + strings.ToLower(job.Company)))
	return "sample://" + hex.EncodeToString(sum[:])[:16]
}
