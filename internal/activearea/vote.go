package activearea

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"hdrmeta/internal/frame"
	"hdrmeta/internal/logging"
)

// Sampler draws uniform random indices in [0,n). *math/rand/v2.Rand
// satisfies it.
type Sampler interface {
	IntN(n int) int
}

// Candidate is one distinct band seen during voting.
type Candidate struct {
	Key       string
	RowOffset int
	RowCount  int
	Count     int
	// BelowLegalBlack counts sampled frames with code values under legal black.
	BelowLegalBlack int
}

// Valid reports whether the candidate describes a usable band.
func (c Candidate) Valid() bool {
	return c.RowOffset >= 0 && c.RowCount > 0
}

// Consensus is the outcome of a vote.
type Consensus struct {
	// Winner is the candidate with the highest count. Ties go to the
	// lexicographically smallest key.
	Winner Candidate
	// Disagreement is true when more than one distinct band was seen.
	Disagreement bool
	// Tally lists every candidate ordered by key.
	Tally []Candidate
	// Sampled is the number of frames inspected.
	Sampled int
}

// Valid reports whether the winning band can be used for analysis.
func (c Consensus) Valid() bool {
	return c.Sampled > 0 && c.Winner.Valid()
}

// Region returns the winning band.
func (c Consensus) Region() frame.Region {
	return frame.Region{RowOffset: c.Winner.RowOffset, RowCount: c.Winner.RowCount}
}

// ErrNoFrames is returned when there is nothing to sample.
var ErrNoFrames = errors.New("no frames to sample")

// Voter samples frames and tallies their detected bands.
type Voter struct {
	Decode frame.DecodeFunc
	Rand   Sampler
	Logger *slog.Logger
}

// Vote draws min(sampleSize, len(paths)) independent random picks from
// paths (a file may be drawn more than once), detects each frame's band, and
// returns the tally. Frames that cannot be decoded vote for the invalid band.
func (v *Voter) Vote(ctx context.Context, paths []string, sampleSize int) (Consensus, error) {
	if len(paths) == 0 {
		return Consensus{}, ErrNoFrames
	}
	if sampleSize <= 0 {
		return Consensus{}, errors.New("sample size must be positive")
	}
	if v.Rand == nil {
		return Consensus{}, errors.New("voter requires a random source")
	}
	logger := logging.NewComponentLogger(v.Logger, "activearea")
	decode := v.Decode
	if decode == nil {
		decode = frame.DecodeFile
	}

	draws := min(sampleSize, len(paths))
	tally := make(map[string]*Candidate, draws)
	for i := 0; i < draws; i++ {
		if err := ctx.Err(); err != nil {
			return Consensus{}, err
		}
		path := paths[v.Rand.IntN(len(paths))]

		obs := Invalid
		buf, err := decode(path)
		if err != nil {
			logger.Warn("cannot open sample frame", logging.String("path", path), logging.Error(err))
		} else {
			obs = Detect(buf)
		}
		logger.Debug("sample frame",
			logging.String("path", path),
			logging.Int("row_offset", obs.RowOffset),
			logging.Int("row_count", obs.RowCount),
		)

		key := obs.Key()
		c, ok := tally[key]
		if !ok {
			c = &Candidate{Key: key, RowOffset: obs.RowOffset, RowCount: obs.RowCount}
			tally[key] = c
		}
		c.Count++
		if buf != nil && obs.BelowLegalBlack() {
			c.BelowLegalBlack++
		}
	}

	return tallyConsensus(tally, draws), nil
}

// Vote is a convenience wrapper around Voter.Vote.
func Vote(ctx context.Context, paths []string, sampleSize int, rng Sampler, decode frame.DecodeFunc) (Consensus, error) {
	v := Voter{Decode: decode, Rand: rng}
	return v.Vote(ctx, paths, sampleSize)
}

func tallyConsensus(tally map[string]*Candidate, sampled int) Consensus {
	out := Consensus{Sampled: sampled, Tally: make([]Candidate, 0, len(tally))}
	for _, c := range tally {
		out.Tally = append(out.Tally, *c)
	}
	sort.Slice(out.Tally, func(i, j int) bool { return out.Tally[i].Key < out.Tally[j].Key })

	for i, c := range out.Tally {
		if i == 0 || c.Count > out.Winner.Count {
			out.Winner = c
		}
	}
	out.Disagreement = len(out.Tally) > 1
	return out
}
