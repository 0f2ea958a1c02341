// Package scraping reads the published list of known-optimal tour costs.
package scraping

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/encoding/charmap"

	"tsplib_viewer/modules/fetching"
)

var ErrNoSolutions = errors.New("no solutions found in the page")

// Solutions maps a problem name to its optimal tour cost.
type Solutions map[string]int

func (s Solutions) Names() []string {
	names := maps.Keys(s)
	slices.Sort(names)

	return names
}

func (s Solutions) Optimal(name string) (int, bool) {
	cost, ok := s[name]
	return cost, ok
}

type SolutionScraper struct {
	url       string
	cachePath string
	client    *http.Client
	logger    *slog.Logger
}

func NewSolutionScraper(url, cachePath string, client *http.Client, logger *slog.Logger) *SolutionScraper {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SolutionScraper{url: url, cachePath: cachePath, client: client, logger: logger}
}

// Load downloads the page into the cache file unless it is already there,
// then parses the cached copy.
func (s *SolutionScraper) Load(ctx context.Context) (Solutions, error) {
	present, err := fetching.FileExists(s.cachePath)
	if err != nil {
		return nil, err
	}

	if present {
		s.logger.Info("solutions page already exists, skipping the download", "path", s.cachePath)
	} else {
		s.logger.Info("downloading optimal solutions", "url", s.url)
		if dir := filepath.Dir(s.cachePath); dir != "" {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, err
			}
		}
		if _, err := fetching.Download(ctx, s.client, s.url, s.cachePath); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(s.cachePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// The page is served as ISO-8859-1.
	return s.Parse(charmap.ISO8859_1.NewDecoder().Reader(file))
}

// Parse reads every <li> item of the form "name : cost (remark)".
// Items whose cost is not an integer are logged and skipped.
func (s *SolutionScraper) Parse(r io.Reader) (Solutions, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	solutions := Solutions{}

	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.DataAtom == atom.Li {
			s.addItem(solutions, text(node))
		}

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if len(solutions) == 0 {
		return solutions, ErrNoSolutions
	}

	return solutions, nil
}

func (s *SolutionScraper) addItem(solutions Solutions, item string) {
	name, value, ok := strings.Cut(item, ":")
	if !ok {
		return
	}

	name = strings.TrimSpace(name)
	value, _, _ = strings.Cut(value, "(")
	value = strings.TrimSpace(value)

	if name == "" {
		return
	}

	cost, err := strconv.Atoi(value)
	if err != nil {
		s.logger.Warn("could not convert the optimal value to an integer", "problem", name, "value", value)
		return
	}

	solutions[name] = cost
}

// text is the concatenated text of node, without the text of nested list items.
func text(node *html.Node) string {
	var sb strings.Builder

	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && (child.DataAtom == atom.Li || child.DataAtom == atom.Ul || child.DataAtom == atom.Ol) {
				continue
			}
			collect(child)
		}
	}
	collect(node)

	return sb.String()
}
