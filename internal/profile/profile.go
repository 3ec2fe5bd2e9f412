// Package profile holds the job seeker's data and the free-form JD text
// that drive CV generation.
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Experience is one work history entry.
type Experience struct {
	Position     string `json:"position" yaml:"position"`
	Company      string `json:"company" yaml:"company"`
	Years        string `json:"years" yaml:"years"`
	Achievements string `json:"achievements" yaml:"achievements"`
}

// Project is one portfolio project entry.
type Project struct {
	Name string `json:"name" yaml:"name"`
	Tech string `json:"tech" yaml:"tech"`
	Desc string `json:"desc" yaml:"desc"`
}

// UserProfile is the full set of data the user enters about themselves.
type UserProfile struct {
	FullName    string       `json:"full_name" yaml:"full_name"`
	Email       string       `json:"email" yaml:"email"`
	Phone       string       `json:"phone" yaml:"phone"`
	Education   string       `json:"education" yaml:"education"`
	Skills      []string     `json:"skills" yaml:"skills"`
	Experiences []Experience `json:"experiences" yaml:"experiences"`
	Projects    []Project    `json:"projects" yaml:"projects"`
}

// JobDescription wraps the raw JD text pasted or extracted from an upload.
type JobDescription struct {
	RawText string `json:"raw_text" yaml:"raw_text"`
}

// Load reads a user profile from a YAML file.
func Load(path string) (*UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}

	var p UserProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}

	return &p, nil
}

// ParseSkills splits a comma-separated skills line.
func ParseSkills(s string) []string {
	var skills []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			skills = append(skills, part)
		}
	}
	return skills
}

// ParseExperiences parses the line-oriented form syntax
// "position | company | years | achievements", one entry per line.
func ParseExperiences(s string) []Experience {
	var out []Experience
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := splitFields(line)
		e := Experience{}
		if len(parts) > 0 {
			e.Position = parts[0]
		}
		if len(parts) > 1 {
			e.Company = parts[1]
		}
		if len(parts) > 2 {
			e.Years = parts[2]
		}
		if len(parts) > 3 {
			e.Achievements = parts[3]
		}
		out = append(out, e)
	}
	return out
}

// ParseProjects parses "name | tech | desc" lines.
func ParseProjects(s string) []Project {
	var out []Project
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := splitFields(line)
		p := Project{}
		if len(parts) > 0 {
			p.Name = parts[0]
		}
		if len(parts) > 1 {
			p.Tech = parts[1]
		}
		if len(parts) > 2 {
			p.Desc = parts[2]
		}
		out = append(out, p)
	}
	return out
}

func splitFields(line string) []string {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Payload renders the profile and JD as the indented JSON user message sent
// to the model. Non-ASCII text is emitted as-is, not escaped.
func Payload(p UserProfile, jd JobDescription) string {
	payload := struct {
		UserProfile    UserProfile    `json:"user_profile"`
		JobDescription JobDescription `json:"job_description"`
	}{p, jd}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		// Profile data is plain strings and slices; encoding cannot
		// realistically fail, but never send an empty payload silently.
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return strings.TrimRight(buf.String(), "\n")
}
