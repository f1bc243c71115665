package eval

import "fmt"

// Confusion tallies test outcomes as [n00, n01, n10, n11], where nXY counts
// instances with actual label X that were predicted as Y.
type Confusion [4]int

func index(actual, predicted bool) int {
	i := 0
	if actual {
		i += 2
	}
	if predicted {
		i++
	}
	return i
}

// Add records one classification.
func (c *Confusion) Add(actual, predicted bool) {
	c[index(actual, predicted)]++
}

// Merge adds other's counts into c.
func (c *Confusion) Merge(other Confusion) {
	for i, n := range other {
		c[i] += n
	}
}

// Total is the number of classified instances.
func (c Confusion) Total() int {
	return c[0] + c[1] + c[2] + c[3]
}

// Accuracy is the fraction of correct predictions, 0 when nothing was tested.
func (c Confusion) Accuracy() float64 {
	return c.rate(c[0] + c[3])
}

// FalsePositiveRate is the share of all test instances that were negative but
// predicted positive.
func (c Confusion) FalsePositiveRate() float64 {
	return c.rate(c[1])
}

// FalseNegativeRate is the share of all test instances that were positive but
// predicted negative.
func (c Confusion) FalseNegativeRate() float64 {
	return c.rate(c[2])
}

func (c Confusion) rate(n int) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// String renders the counts and accuracy, e.g. "[3, 1, 0, 4] 0.875".
func (c Confusion) String() string {
	return fmt.Sprintf("[%d, %d, %d, %d] %.3f", c[0], c[1], c[2], c[3], c.Accuracy())
}
