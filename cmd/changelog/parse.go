package main

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Release is one version section of the changelog.
type Release struct {
	Version string
	Date    string
	Body    string
}

// Unreleased reports whether this is the [Unreleased] section.
func (r Release) Unreleased() bool {
	return strings.EqualFold(r.Version, "unreleased")
}

// Changelog is the parsed document: releases newest-first, plus the link
// definitions collected from the bottom of the file.
type Changelog struct {
	Releases []Release
	Links    map[string]string
}

// Release returns the section for version, tolerating a leading "v".
func (c *Changelog) Release(version string) *Release {
	version = strings.TrimPrefix(version, "v")
	for i := range c.Releases {
		if strings.TrimPrefix(c.Releases[i].Version, "v") == version {
			return &c.Releases[i]
		}
	}
	return nil
}

// ParseChangelog parses a Keep a Changelog markdown document. Sections are
// delimited by level-2 headings; everything between one heading and the next
// is that release's body.
func ParseChangelog(source []byte) (*Changelog, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	c := &Changelog{Links: map[string]string{}}
	for _, ref := range ctx.References() {
		c.Links[string(ref.Label())] = string(ref.Destination())
	}

	type section struct {
		version string
		date    string
		start   int // byte offset where the heading begins
		bodyAt  int // byte offset just past the heading line
	}
	var sections []section

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 2 {
			return ast.WalkContinue, nil
		}

		version, date := splitReleaseHeading(headingText(heading, source))
		sec := section{version: version, date: date}
		if lines := heading.Lines(); lines.Len() > 0 {
			sec.start = lines.At(0).Start
			sec.bodyAt = lines.At(lines.Len() - 1).Stop
		}
		sections = append(sections, sec)
		return ast.WalkContinue, nil
	})

	for i, sec := range sections {
		end := len(source)
		if i+1 < len(sections) {
			end = sections[i+1].start
		}
		body := ""
		if sec.bodyAt < end {
			body = strings.TrimSpace(string(source[sec.bodyAt:end]))
		}
		c.Releases = append(c.Releases, Release{Version: sec.version, Date: sec.date, Body: body})
	}

	return c, nil
}

// headingText flattens a heading's text, unwrapping a bracketed link if the
// version is written as [X.Y.Z].
func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			buf.Write(n.Segment.Value(source))
		case *ast.Link:
			for grand := n.FirstChild(); grand != nil; grand = grand.NextSibling() {
				if t, ok := grand.(*ast.Text); ok {
					buf.Write(t.Segment.Value(source))
				}
			}
		}
	}
	return buf.String()
}

// splitReleaseHeading splits "[1.2.0] - 2026-03-01" (or "1.2.0 - 2026-03-01")
// into version and date.
func splitReleaseHeading(heading string) (version, date string) {
	heading = strings.TrimSpace(strings.TrimPrefix(heading, "["))
	if idx := strings.Index(heading, "]"); idx != -1 {
		version = heading[:idx]
		rest := strings.TrimSpace(heading[idx+1:])
		date = strings.TrimSpace(strings.TrimPrefix(rest, "-"))
		return version, date
	}
	if idx := strings.Index(heading, " - "); idx != -1 {
		return strings.TrimSpace(heading[:idx]), strings.TrimSpace(heading[idx+3:])
	}
	return heading, ""
}
