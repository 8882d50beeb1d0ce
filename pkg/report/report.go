package report

import (
	"time"

	"github.com/matzehuels/bundlescope/pkg/analyze"
	"github.com/matzehuels/bundlescope/pkg/bundle"
	"github.com/matzehuels/bundlescope/pkg/extract"
)

// Report is the complete, serializable outcome of analyzing one bundle.
type Report struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty" bson:"_id,omitempty"`
	Bundle    string    `json:"bundle" yaml:"bundle" bson:"bundle"`
	Searcher  string    `json:"searcher" yaml:"searcher" bson:"searcher"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" bson:"created_at"`

	MatchedLines int  `json:"matched_lines" yaml:"matched_lines" bson:"matched_lines"`
	Modules      int  `json:"modules" yaml:"modules" bson:"modules"`
	Failed       int  `json:"failed" yaml:"failed" bson:"failed"`
	Skipped      int  `json:"skipped" yaml:"skipped" bson:"skipped"`
	Duplicates   int  `json:"duplicates" yaml:"duplicates" bson:"duplicates"`
	NoMatches    bool `json:"no_matches,omitempty" yaml:"no_matches,omitempty" bson:"no_matches"`

	Application []string `json:"application" yaml:"application" bson:"application"`
	Library     []string `json:"library" yaml:"library" bson:"library"`

	Depths   []DepthRow `json:"depths,omitempty" yaml:"depths,omitempty" bson:"depths,omitempty"`
	Dangling int        `json:"dangling" yaml:"dangling" bson:"dangling"`
	Cyclic   int        `json:"cyclic" yaml:"cyclic" bson:"cyclic"`
	MaxDepth int        `json:"max_depth,omitempty" yaml:"max_depth,omitempty" bson:"max_depth"`
}

// DepthRow is one line of the depth report.
type DepthRow struct {
	Name         string `json:"name" yaml:"name" bson:"name"`
	ID           string `json:"id" yaml:"id" bson:"id"`
	Dependencies int    `json:"dependencies" yaml:"dependencies" bson:"dependencies"`
	Depth        int    `json:"depth" yaml:"depth" bson:"depth"`
	Library      bool   `json:"library,omitempty" yaml:"library,omitempty" bson:"library"`
	Cyclic       bool   `json:"cyclic,omitempty" yaml:"cyclic,omitempty" bson:"cyclic"`
}

// Source describes the search that produced a module set.
type Source struct {
	Bundle       string `json:"bundle"`
	Searcher     string `json:"searcher"`
	MatchedLines int    `json:"matched_lines"`
	NoMatches    bool   `json:"no_matches,omitempty"`
}

// SourceOf describes an extraction result.
func SourceOf(ext *extract.Result) Source {
	return Source{
		Bundle:       ext.Path,
		Searcher:     ext.Searcher,
		MatchedLines: len(ext.Lines),
		NoMatches:    ext.NoMatches,
	}
}

// New assembles a report from the stages of one run.
func New(src Source, parsed *bundle.ParseResult, res *analyze.Result) *Report {
	r := &Report{
		Bundle:       src.Bundle,
		Searcher:     src.Searcher,
		CreatedAt:    time.Now().UTC(),
		MatchedLines: src.MatchedLines,
		NoMatches:    src.NoMatches,
		Modules:      len(parsed.Modules),
		Failed:       parsed.Failed,
		Skipped:      parsed.Skipped,
		Duplicates:   parsed.Duplicates,
		Application:  names(res.Application),
		Library:      names(res.Library),
		Dangling:     res.Dangling,
		Cyclic:       res.Cyclic,
		MaxDepth:     res.MaxDepth,
	}
	if res.Depths != nil {
		r.Depths = make([]DepthRow, len(res.Depths))
		for i, d := range res.Depths {
			r.Depths[i] = DepthRow{
				Name:         d.Module.VerboseName,
				ID:           d.Module.ID,
				Dependencies: len(d.Module.Dependencies),
				Depth:        d.Depth,
				Library:      d.Library,
				Cyclic:       d.Cyclic,
			}
		}
	}
	return r
}

func names(mods []bundle.Module) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.VerboseName
	}
	return out
}
