// pkg/normalizer/header.go
package normalizer

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ChiefMedia/mintMeasureColab/pkg/config"
	"github.com/ChiefMedia/mintMeasureColab/pkg/model"
)

// HeaderNormalizer maps the varied column-name spellings of per-station
// post logs onto the canonical header set. It is a pure mapping over
// the header row; lookup tables are never mutated.
type HeaderNormalizer struct {
	dateSynonyms map[string]struct{}
	timeSynonyms map[string]struct{}
	logger       *zap.Logger
}

// NewHeaderNormalizer builds a normalizer from the configured synonym
// lists.
func NewHeaderNormalizer(lookup *config.Lookup, logger *zap.Logger) *HeaderNormalizer {
	n := &HeaderNormalizer{
		dateSynonyms: make(map[string]struct{}, len(lookup.DateSynonyms)),
		timeSynonyms: make(map[string]struct{}, len(lookup.TimeSynonyms)),
		logger:       logger.Named("header-normalizer"),
	}
	for _, s := range lookup.DateSynonyms {
		n.dateSynonyms[normalizeHeader(s)] = struct{}{}
	}
	for _, s := range lookup.TimeSynonyms {
		n.timeSynonyms[normalizeHeader(s)] = struct{}{}
	}
	return n
}

// MapHeaders resolves each raw header to its canonical name, in column
// order. A resolved name of "" marks a discarded decorative column.
// Returns UnrecognizedHeaderError when no date or time header matches.
func (n *HeaderNormalizer) MapHeaders(raw []string, source model.SourceType) ([]string, error) {
	mapped := make([]string, len(raw))
	for i, header := range raw {
		mapped[i] = n.canonicalName(header, source)
	}

	if !containsName(mapped, model.ColAiredDate) && !hasSplitDateColumns(mapped) {
		return nil, &UnrecognizedHeaderError{
			File:    "",
			Missing: model.ColAiredDate,
			Headers: nonEmpty(mapped),
		}
	}
	if !containsName(mapped, model.ColAiredTime) {
		return nil, &UnrecognizedHeaderError{
			File:    "",
			Missing: model.ColAiredTime,
			Headers: nonEmpty(mapped),
		}
	}
	return mapped, nil
}

// Normalize applies the header mapping to a table: canonical headers,
// decorative columns discarded, and on duplicate canonical names the
// later column kept. Market files carry a decorative Day/Time pair
// ahead of the real aired date/time, which is why the later duplicate
// wins.
func (n *HeaderNormalizer) Normalize(t *model.RawTable, source model.SourceType) (*model.RawTable, error) {
	mapped, err := n.MapHeaders(t.Headers, source)
	if err != nil {
		if uhErr, ok := err.(*UnrecognizedHeaderError); ok {
			uhErr.File = t.SourceFile
		}
		return nil, err
	}

	// Select the surviving column for each canonical name: iterate
	// from the right so the last duplicate is the one kept.
	seen := make(map[string]struct{}, len(mapped))
	keep := make([]bool, len(mapped))
	for i := len(mapped) - 1; i >= 0; i-- {
		name := mapped[i]
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			n.logger.Debug("Discarding duplicate column",
				zap.String("file", t.SourceFile),
				zap.String("column", name),
				zap.Int("index", i))
			continue
		}
		seen[name] = struct{}{}
		keep[i] = true
	}

	headers := make([]string, 0, len(mapped))
	indices := make([]int, 0, len(mapped))
	for i, name := range mapped {
		if keep[i] {
			headers = append(headers, name)
			indices = append(indices, i)
		}
	}

	rows := make([][]string, len(t.Rows))
	for r := range t.Rows {
		row := make([]string, len(indices))
		for c, idx := range indices {
			row[c] = t.Cell(r, idx)
		}
		rows[r] = row
	}

	n.logger.Info("Normalized headers",
		zap.String("file", t.SourceFile),
		zap.Strings("headers", headers))

	return &model.RawTable{
		SourceFile: t.SourceFile,
		Headers:    headers,
		Rows:       rows,
	}, nil
}

// canonicalName resolves one raw header. Non-matched headers pass
// through in normalized form.
func (n *HeaderNormalizer) canonicalName(raw string, source model.SourceType) string {
	name := normalizeHeader(raw)
	if name == "" || strings.Contains(name, "unnamed") {
		return ""
	}

	if _, ok := n.dateSynonyms[name]; ok {
		return model.ColAiredDate
	}
	if _, ok := n.timeSynonyms[name]; ok {
		return model.ColAiredTime
	}

	if source == model.SourceMultiStationMarket {
		// Market files label the aired date "Day" and the station "Ntwk".
		switch name {
		case "day":
			return model.ColAiredDate
		case "ntwk":
			return model.ColStation
		}
	}

	switch {
	case strings.Contains(name, "length"):
		return model.ColLength
	case strings.Contains(name, "rate"):
		return model.ColRate
	}

	return name
}

var headerJunkRE = regexp.MustCompile(`[^a-z0-9\s_]`)

// normalizeHeader lowercases a header, strips punctuation, and joins
// the remaining words with underscores.
func normalizeHeader(raw string) string {
	name := strings.ToLower(raw)
	name = headerJunkRE.ReplaceAllString(name, " ")
	name = collapseWhitespace(name)
	return strings.ReplaceAll(name, " ", "_")
}

// hasSplitDateColumns reports whether the table ships its date split
// into m, d and y columns. One station's traffic system does this; the
// row cleaner reassembles the date.
func hasSplitDateColumns(names []string) bool {
	return containsName(names, "m") && containsName(names, "d") && containsName(names, "y")
}

func containsName(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}

func nonEmpty(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}
