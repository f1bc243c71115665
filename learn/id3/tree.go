package id3

import (
	"math"

	"github.com/emirpasic/gods/sets/hashset"

	"github.com/teranos/psam/learn"
)

// node is either a branch on a feature or a leaf carrying a prediction.
type node interface {
	classify(inst *learn.Instance) bool
}

type branch struct {
	feature int
	pos     node // instances with feature > 0
	neg     node // instances with feature == 0
}

func (b *branch) classify(inst *learn.Instance) bool {
	if inst.Features[b.feature] > 0 {
		return b.pos.classify(inst)
	}
	return b.neg.classify(inst)
}

type leaf struct {
	label bool
}

func (l leaf) classify(*learn.Instance) bool {
	return l.label
}

// majority predicts positive only on a strict positive majority.
func majority(insts []*learn.Instance) leaf {
	npos, nneg := learn.CountLabels(insts)
	return leaf{label: npos > nneg}
}

// split partitions insts on whether feature f is on.
func split(insts []*learn.Instance, f int) (pos, neg []*learn.Instance) {
	for _, inst := range insts {
		if inst.Features[f] > 0 {
			pos = append(pos, inst)
		} else {
			neg = append(neg, inst)
		}
	}
	return pos, neg
}

// entropy is the two-class Shannon entropy of the labels, in bits.
func entropy(insts []*learn.Instance) float64 {
	npos, nneg := learn.CountLabels(insts)
	if npos == 0 || nneg == 0 {
		return 0
	}
	n := float64(npos + nneg)
	prPos := float64(npos) / n
	prNeg := float64(nneg) / n
	return -prPos*math.Log2(prPos) - prNeg*math.Log2(prNeg)
}

// chiSquare measures how far the label counts sit from an even split.
func chiSquare(npos, nneg int) float64 {
	avg := float64(npos+nneg) / 2
	dpos := float64(npos) - avg
	dneg := float64(nneg) - avg
	return (dpos*dpos + dneg*dneg) / avg
}

type candidate struct {
	feature    int
	gain       float64
	pos, neg   []*learn.Instance
	uPos, uNeg float64
}

// builder carries the per-tree settings through the recursion.
type builder struct {
	nfeatures int
	opts      Options
}

// build grows the subtree for insts. used holds the features already split
// on along the path here; u is the entropy of insts.
func (b *builder) build(insts []*learn.Instance, used *hashset.Set, u float64) node {
	if used.Size() == b.nfeatures {
		return majority(insts)
	}

	if b.opts.MinChiSquare != nil {
		npos, nneg := learn.CountLabels(insts)
		if chiSquare(npos, nneg) <= *b.opts.MinChiSquare {
			return majority(insts)
		}
	}

	best := b.bestSplit(insts, used, u)
	if best == nil {
		return majority(insts)
	}
	if b.opts.MinGain != nil && best.gain < *b.opts.MinGain {
		return majority(insts)
	}

	// Each child gets its own copy so siblings never see each other's splits.
	posUsed := hashset.New(used.Values()...)
	posUsed.Add(best.feature)
	negUsed := hashset.New(used.Values()...)
	negUsed.Add(best.feature)

	return &branch{
		feature: best.feature,
		pos:     b.build(best.pos, posUsed, best.uPos),
		neg:     b.build(best.neg, negUsed, best.uNeg),
	}
}

// bestSplit scans unused features in index order and returns the first one
// with maximal strictly-positive information gain, or nil.
func (b *builder) bestSplit(insts []*learn.Instance, used *hashset.Set, u float64) *candidate {
	n := float64(len(insts))
	var best *candidate
	for f := 0; f < b.nfeatures; f++ {
		if used.Contains(f) {
			continue
		}
		pos, neg := split(insts, f)
		if len(pos) == 0 || len(neg) == 0 {
			continue
		}
		uPos := entropy(pos)
		uNeg := entropy(neg)
		gain := u - float64(len(pos))/n*uPos - float64(len(neg))/n*uNeg
		if gain <= 0 {
			// Rounding can produce tiny negative gains; treat as no gain.
			continue
		}
		if best == nil || gain > best.gain {
			best = &candidate{feature: f, gain: gain, pos: pos, neg: neg, uPos: uPos, uNeg: uNeg}
		}
	}
	return best
}

// Stats describes the shape of a trained tree.
type Stats struct {
	Depth    int `json:"depth"`
	Branches int `json:"branches"`
	Leaves   int `json:"leaves"`
}

func stats(n node) Stats {
	switch t := n.(type) {
	case *branch:
		ps := stats(t.pos)
		ns := stats(t.neg)
		return Stats{
			Depth:    1 + max(ps.Depth, ns.Depth),
			Branches: 1 + ps.Branches + ns.Branches,
			Leaves:   ps.Leaves + ns.Leaves,
		}
	default:
		return Stats{Leaves: 1}
	}
}
