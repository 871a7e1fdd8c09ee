package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// Problem is one issue found while linting.
type Problem struct {
	Line    int
	Message string
}

var (
	semverPattern  = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// validSections are the change-type headings Keep a Changelog allows.
var validSections = map[string]bool{
	"Added":      true,
	"Changed":    true,
	"Deprecated": true,
	"Removed":    true,
	"Fixed":      true,
	"Security":   true,
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the changelog against the Keep a Changelog format",
	Long: `Check the changelog against the Keep a Changelog format.

Checks:
- a "# Changelog" title and an [Unreleased] section exist
- release headings look like "## [X.Y.Z] - YYYY-MM-DD"
- change-type headings are one of Added, Changed, Deprecated, Removed, Fixed, Security
- every release has a link definition`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		problems := Lint(content)
		if len(problems) == 0 {
			fmt.Println("Changelog is valid")
			return nil
		}

		fmt.Printf("Found %d problem(s):\n\n", len(problems))
		for _, p := range problems {
			if p.Line > 0 {
				fmt.Printf("  Line %d: %s\n", p.Line, p.Message)
			} else {
				fmt.Printf("  %s\n", p.Message)
			}
		}
		os.Exit(1)
		return nil
	},
}

// Lint reports every format problem in source.
func Lint(source []byte) []Problem {
	var problems []Problem
	report := func(line int, format string, args ...interface{}) {
		problems = append(problems, Problem{Line: line, Message: fmt.Sprintf(format, args...)})
	}

	changelog, _ := ParseChangelog(source)

	hasTitle := false
	hasUnreleased := false
	for i, line := range strings.Split(string(source), "\n") {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "# ") {
			hasTitle = true
			if !strings.Contains(strings.ToLower(trimmed), "changelog") {
				report(lineNum, "title should contain 'Changelog'")
			}
			continue
		}

		if strings.HasPrefix(trimmed, "### ") {
			section := strings.TrimPrefix(trimmed, "### ")
			if !validSections[section] {
				report(lineNum, "unknown change type %q, expected one of Added, Changed, Deprecated, Removed, Fixed, Security", section)
			}
			continue
		}

		if !strings.HasPrefix(trimmed, "## ") {
			continue
		}
		version, date := splitReleaseHeading(strings.TrimPrefix(trimmed, "## "))
		if strings.EqualFold(version, "unreleased") {
			hasUnreleased = true
			continue
		}
		if !semverPattern.MatchString(version) {
			report(lineNum, "version %q should follow semantic versioning (X.Y.Z)", version)
		}
		if date == "" {
			report(lineNum, "version %q is missing a release date", version)
		} else if !isoDatePattern.MatchString(date) {
			report(lineNum, "date %q should be ISO 8601 (YYYY-MM-DD)", date)
		}
	}

	if !hasTitle {
		report(0, "missing changelog title (# Changelog)")
	}
	if !hasUnreleased {
		report(0, "missing [Unreleased] section")
	}

	if changelog != nil {
		for _, release := range changelog.Releases {
			if _, ok := changelog.Links[release.Version]; !ok {
				report(0, "missing link definition for [%s]", release.Version)
			}
		}
	}

	return problems
}

func init() {
	lintCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	rootCmd.AddCommand(lintCmd)
}
