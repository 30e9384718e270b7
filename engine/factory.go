// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"log/slog"
	"strings"

	"github.com/poiesic/sift/core"
)

// Config selects the engine stack NewFactory builds.
type Config struct {
	// Exact makes plain terms exact; a leading ' switches a term back to fuzzy.
	Exact bool

	// Regex treats the whole query as one regexp2 pattern.
	Regex bool

	// Algorithm is the fuzzy scorer for fuzzy terms.
	Algorithm Algorithm

	// RankBuilder orders results. Default: score, begin, end.
	RankBuilder *core.RankBuilder

	// Logger receives diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// Validate checks that the configuration is consistent.
func (c *Config) Validate() error {
	if c.Exact && c.Regex {
		return ErrConflictingModes
	}
	if c.Algorithm != AlgoFzfV2 && c.Algorithm != AlgoSimple {
		return ErrUnknownAlgorithm
	}
	return nil
}

// NewFactory builds the factory described by cfg.
func NewFactory(cfg Config) (Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.RankBuilder == nil {
		cfg.RankBuilder = core.DefaultRankBuilder()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Regex {
		return &RegexFactory{rankBuilder: cfg.RankBuilder, logger: cfg.Logger}, nil
	}
	return NewAndOrFactory(&ExactOrFuzzyFactory{
		exact:       cfg.Exact,
		algorithm:   cfg.Algorithm,
		rankBuilder: cfg.RankBuilder,
	}), nil
}

// ExactOrFuzzyFactory builds the engine for a single query term,
// interpreting the ', ^, $ and ! modifiers.
type ExactOrFuzzyFactory struct {
	exact       bool
	algorithm   Algorithm
	rankBuilder *core.RankBuilder
}

var _ Factory = (*ExactOrFuzzyFactory)(nil)

// NewExactOrFuzzyFactory returns a term factory.
func NewExactOrFuzzyFactory(exact bool, algorithm Algorithm, rankBuilder *core.RankBuilder) *ExactOrFuzzyFactory {
	if rankBuilder == nil {
		rankBuilder = core.DefaultRankBuilder()
	}
	return &ExactOrFuzzyFactory{exact: exact, algorithm: algorithm, rankBuilder: rankBuilder}
}

func (f *ExactOrFuzzyFactory) CreateEngine(term string, caseMatching core.CaseMatching) MatchEngine {
	inverse := false
	if strings.HasPrefix(term, "!") {
		inverse = true
		term = term[1:]
	}

	fuzzy := !f.exact
	kind := ExactContains
	if strings.HasPrefix(term, "'") {
		fuzzy = f.exact
		term = term[1:]
	}
	if strings.HasPrefix(term, "^") {
		kind = ExactPrefix
		fuzzy = false
		term = term[1:]
	}
	if strings.HasSuffix(term, "$") && !strings.HasSuffix(term, `\$`) {
		if kind == ExactPrefix {
			kind = ExactEqual
		} else {
			kind = ExactSuffix
		}
		fuzzy = false
		term = term[:len(term)-1]
	}
	term = strings.ReplaceAll(term, `\$`, "$")

	if term == "" {
		return NewMatchAllEngine(f.rankBuilder)
	}

	sensitive := caseMatching.Sensitive(term)
	if fuzzy && !inverse {
		return NewFuzzyEngine(term, sensitive, f.algorithm, f.rankBuilder)
	}
	return NewExactEngine(term, sensitive, kind, inverse, f.rankBuilder)
}

// AndOrFactory splits a query into terms and combines the term engines:
// terms are ANDed, and terms joined by a lone "|" are ORed first.
type AndOrFactory struct {
	inner Factory
}

var _ Factory = (*AndOrFactory)(nil)

// NewAndOrFactory wraps a term factory.
func NewAndOrFactory(inner Factory) *AndOrFactory {
	return &AndOrFactory{inner: inner}
}

func (f *AndOrFactory) CreateEngine(query string, caseMatching core.CaseMatching) MatchEngine {
	var groups [][]string
	joinNext := false
	for _, term := range splitTerms(query) {
		if term == "|" {
			joinNext = len(groups) > 0
			continue
		}
		if joinNext {
			last := len(groups) - 1
			groups[last] = append(groups[last], term)
			joinNext = false
			continue
		}
		groups = append(groups, []string{term})
	}

	if len(groups) == 0 {
		return f.inner.CreateEngine("", caseMatching)
	}

	ands := make([]MatchEngine, 0, len(groups))
	for _, group := range groups {
		ors := make([]MatchEngine, len(group))
		for i, term := range group {
			ors[i] = f.inner.CreateEngine(term, caseMatching)
		}
		if len(ors) == 1 {
			ands = append(ands, ors[0])
		} else {
			ands = append(ands, NewOrEngine(ors...))
		}
	}
	if len(ands) == 1 {
		return ands[0]
	}
	return NewAndEngine(ands...)
}

// splitTerms splits on spaces that are not escaped with a backslash.
func splitTerms(query string) []string {
	var terms []string
	var current strings.Builder
	escaped := false
	for _, r := range query {
		switch {
		case escaped:
			if r != ' ' {
				current.WriteRune('\\')
			}
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ' ':
			if current.Len() > 0 {
				terms = append(terms, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		current.WriteRune('\\')
	}
	if current.Len() > 0 {
		terms = append(terms, current.String())
	}
	return terms
}

// RegexFactory treats the whole query as one pattern.
type RegexFactory struct {
	rankBuilder *core.RankBuilder
	logger      *slog.Logger
}

var _ Factory = (*RegexFactory)(nil)

func (f *RegexFactory) CreateEngine(query string, caseMatching core.CaseMatching) MatchEngine {
	if query == "" {
		return NewMatchAllEngine(f.rankBuilder)
	}
	return NewRegexEngine(query, caseMatching.Sensitive(query), f.rankBuilder, f.logger)
}
