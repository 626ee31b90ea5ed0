// Package markdown extracts project references from an annotated Markdown
// document. A reference is an HTML comment placed under the headings that
// title it:
//
//	## Transit
//	### Line 5
//	<!-- id: line-5, status: planned, timeline: soon, label: Phase 1 -->
//
// Multi-line comments hold one "key: value" pair per line.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/infrastructured-map/dataset"
	"github.com/theoremus-urban-solutions/infrastructured-map/internal"
)

// ErrInvalidReference marks an annotation that cannot become a project reference.
var ErrInvalidReference = errors.New("invalid project reference")

// ExtractError locates a bad annotation in the source document.
type ExtractError struct {
	Line   int
	ID     string
	Reason string
}

func (e *ExtractError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s at line %d: %s", ErrInvalidReference, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s at line %d: id=%s: %s", ErrInvalidReference, e.Line, e.ID, e.Reason)
}

func (e *ExtractError) Unwrap() error { return ErrInvalidReference }

// completed is the status whose projects default to the timeline of the same name.
const completed = "completed"

var metadataPattern = regexp.MustCompile(`(?s)^\s*<!--(.*)-->\s*$`)

// Options lists the values a reference may use.
type Options struct {
	Statuses  []string
	Timelines []string
}

// Extractor turns annotated Markdown into project records keyed by feature id.
type Extractor struct {
	opts   Options
	md     goldmark.Markdown
	logger *zap.SugaredLogger
}

func NewExtractor(opts Options, logger *zap.SugaredLogger) *Extractor {
	return &Extractor{
		opts:   opts,
		md:     goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID())),
		logger: internal.OrNop(logger),
	}
}

type heading struct {
	level int
	text  string
	id    string
}

// Extract returns the references of source grouped by id, each list in
// document order. It stops at the first invalid annotation.
func (x *Extractor) Extract(source []byte) (map[string][]dataset.Project, error) {
	doc := x.md.Parser().Parse(text.NewReader(source))

	refs := map[string][]dataset.Project{}
	var headings []heading
	count := 0

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			for len(headings) > 0 && headings[len(headings)-1].level >= n.Level {
				headings = headings[:len(headings)-1]
			}
			h := heading{level: n.Level, text: inlineText(n, source)}
			if id, ok := n.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					h.id = string(b)
				}
			}
			headings = append(headings, h)
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock, *ast.RawHTML:
			raw, start := htmlContent(n, source)
			line := bytes.Count(source[:start], []byte("\n")) + 1
			id, project, err := x.reference(raw, headings)
			if err != nil {
				var xerr *ExtractError
				if errors.As(err, &xerr) {
					xerr.Line = line
				}
				return ast.WalkStop, err
			}
			refs[id] = append(refs[id], project)
			count++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	x.logger.Infow("extracted project references", "references", count, "ids", len(refs))
	return refs, nil
}

// Extract parses source with a one-off Extractor.
func Extract(source []byte, opts Options) (map[string][]dataset.Project, error) {
	return NewExtractor(opts, nil).Extract(source)
}

func (x *Extractor) reference(raw string, headings []heading) (string, dataset.Project, error) {
	m := metadataPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", dataset.Project{}, &ExtractError{Reason: fmt.Sprintf("unexpected html %q", strings.TrimSpace(raw))}
	}
	meta, err := parseMetadata(m[1])
	if err != nil {
		return "", dataset.Project{}, err
	}

	id := meta["id"]
	p := dataset.Project{
		Status:   meta["status"],
		Timeline: meta["timeline"],
		Color:    meta["color"],
	}
	if p.Status == completed && p.Timeline == "" && slices.Contains(x.opts.Timelines, completed) {
		p.Timeline = completed
	}
	for _, h := range headings {
		p.Title = append(p.Title, h.text)
	}
	if label, ok := meta["label"]; ok {
		p.Title = append(p.Title, label)
	}
	if len(headings) > 0 {
		p.HeadingID = headings[len(headings)-1].id
	}

	switch {
	case id == "":
		return "", p, &ExtractError{Reason: `missing "id" property`}
	case p.Status == "":
		return "", p, &ExtractError{ID: id, Reason: `missing "status" property`}
	case !slices.Contains(x.opts.Statuses, p.Status):
		return "", p, &ExtractError{ID: id, Reason: "unknown status " + p.Status}
	case p.Timeline != "" && !slices.Contains(x.opts.Timelines, p.Timeline):
		return "", p, &ExtractError{ID: id, Reason: "unknown timeline " + p.Timeline}
	case len(p.Title) == 0:
		return "", p, &ExtractError{ID: id, Reason: "no enclosing heading or label to title the project"}
	}
	return id, p, nil
}

// parseMetadata splits on newlines when the comment spans lines and on
// commas otherwise. Every non-blank pair must be exactly "key: value".
func parseMetadata(body string) (map[string]string, error) {
	sep := ","
	if strings.Contains(body, "\n") {
		sep = "\n"
	}
	meta := map[string]string{}
	for _, kvp := range strings.Split(body, sep) {
		if strings.TrimSpace(kvp) == "" {
			continue
		}
		parts := strings.Split(kvp, ":")
		if len(parts) != 2 {
			return nil, &ExtractError{Reason: fmt.Sprintf("invalid key/value %q", strings.TrimSpace(kvp))}
		}
		meta[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return meta, nil
}

func htmlContent(n ast.Node, source []byte) (string, int) {
	var b strings.Builder
	start := -1
	add := func(seg text.Segment) {
		if start < 0 {
			start = seg.Start
		}
		b.Write(seg.Value(source))
	}
	switch n := n.(type) {
	case *ast.HTMLBlock:
		for i := 0; i < n.Lines().Len(); i++ {
			add(n.Lines().At(i))
		}
		if n.HasClosure() {
			add(n.ClosureLine)
		}
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			add(n.Segments.At(i))
		}
	}
	if start < 0 {
		start = 0
	}
	return b.String(), start
}

func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
