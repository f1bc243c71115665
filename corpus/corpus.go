// Package corpus loads labeled binary feature vectors from CSV.
//
// Each record is `name,label,f0,f1,...` with no header row. Labels and
// feature values must be 0 or 1 and every record must carry the same number
// of features. Names are opaque: a leading '#' is part of the name, not a
// comment.
package corpus

import (
	"encoding/csv"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/learn"
)

// Stdin is the source name used when the corpus is read from standard input.
const Stdin = "-"

// Corpus is a validated set of instances sharing one feature count.
type Corpus struct {
	// Source is the file the corpus was read from, or "-" for stdin.
	Source      string
	Instances   []learn.Instance
	NumFeatures int
}

// Len returns the number of instances.
func (c *Corpus) Len() int {
	return len(c.Instances)
}

// Refs returns the instances as the borrowed slice the learners consume.
func (c *Corpus) Refs() []*learn.Instance {
	return learn.Refs(c.Instances)
}

// Open reads a corpus from path. An empty path or "-" reads stdin.
func Open(path string) (*Corpus, error) {
	if path == "" || path == Stdin {
		return Read(os.Stdin, Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open corpus %s", path)
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses and validates a CSV corpus. source names the input in errors.
func Read(r io.Reader, source string) (*Corpus, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	c := &Corpus{Source: source}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", source)
		}
		line, _ := cr.FieldPos(0)

		inst, err := parseRecord(record)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", source, line)
		}
		if len(c.Instances) == 0 {
			c.NumFeatures = len(inst.Features)
		} else if len(inst.Features) != c.NumFeatures {
			return nil, errors.Wrapf(errors.ErrFeatureCount,
				"%s:%d: instance %q has %d features, expected %d",
				source, line, inst.Name, len(inst.Features), c.NumFeatures)
		}
		c.Instances = append(c.Instances, inst)
	}

	if len(c.Instances) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrEmptyCorpus, "no instances in %s", source),
			"each line should look like: name,label,f0,f1,...")
	}
	return c, nil
}

func parseRecord(record []string) (learn.Instance, error) {
	if len(record) < 3 {
		return learn.Instance{}, errors.WithHint(
			errors.Wrapf(errors.ErrFeatureCount, "record has %d fields", len(record)),
			"each line needs a name, a label and at least one feature")
	}

	name := strings.TrimSpace(record[0])
	label, err := parseBit(record[1])
	if err != nil {
		return learn.Instance{}, errors.Wrapf(errors.ErrInvalidLabel,
			"instance %q has label %q", name, record[1])
	}

	features := make([]uint8, len(record)-2)
	for i, field := range record[2:] {
		v, err := parseBit(field)
		if err != nil {
			return learn.Instance{}, errors.Wrapf(errors.ErrFeatureValue,
				"instance %q feature %d has value %q", name, i, field)
		}
		features[i] = v
	}

	return learn.Instance{Name: name, Label: learn.Label(label), Features: features}, nil
}

func parseBit(s string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, err
	}
	if v > 1 {
		return 0, errors.Newf("%d is not 0 or 1", v)
	}
	return uint8(v), nil
}

// Shuffle permutes insts in place with a PCG source seeded by seed and
// returns the seed used. A zero seed draws a fresh one so the run can be
// repeated with the returned value.
func Shuffle(insts []*learn.Instance, seed uint64) uint64 {
	for seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(insts), func(i, j int) {
		insts[i], insts[j] = insts[j], insts[i]
	})
	return seed
}
