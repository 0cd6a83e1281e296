// Package bitpack decodes columns of small integer bin indices packed
// low-to-high into 64-bit machine words.
//
// A Column never owns training data directly: it borrows a caller-owned
// word slice for the duration of a decode and never copies it. The
// layout (items per word, bits per item, mask) is fixed at construction
// and never changes — SegmentedTensor reshapes are a separate concern.
package bitpack

import (
	"github.com/ebmcore/ebmcore/pkg/errors"
)

// WordBits is the bit width of the storage word used for packing.
const WordBits = 64

// Column is a read-only sequential decoder over a slice of packed words.
// Word j encodes instances j*ItemsPerWord .. min(j*ItemsPerWord+ItemsPerWord, N)-1
// in its low-to-high bit positions: the low BitsPerItem bits hold the
// first instance of the word.
type Column struct {
	words        []uint64
	n            int
	itemsPerWord int
	bitsPerItem  int
	mask         uint64
}

// Layout derives bits-per-item and mask from the number of bins a
// feature combination's linearized tensor spans, and the chosen
// items-per-word. It fails with InvalidLayoutError when the resulting
// layout cannot fit in WordBits.
func Layout(itemsPerWord int, totalBins uint64) (bitsPerItem int, mask uint64, err error) {
	if itemsPerWord < 1 || itemsPerWord > WordBits {
		return 0, 0, errors.NewInvalidArgumentError("bitpack.Layout", "itemsPerWord out of [1, WordBits]")
	}
	bitsPerItem = WordBits / itemsPerWord
	if bitsPerItem < 1 {
		return 0, 0, errors.NewInvalidLayoutError("bitpack.Layout", itemsPerWord, bitsPerItem, WordBits)
	}
	if itemsPerWord*bitsPerItem > WordBits {
		return 0, 0, errors.NewInvalidLayoutError("bitpack.Layout", itemsPerWord, bitsPerItem, WordBits)
	}
	if totalBins > 0 {
		need := bitsNeeded(totalBins - 1)
		if need > bitsPerItem {
			return 0, 0, errors.NewInvalidLayoutError("bitpack.Layout", itemsPerWord, bitsPerItem, WordBits)
		}
	}
	mask = (uint64(1) << uint(bitsPerItem)) - 1
	return bitsPerItem, mask, nil
}

// ItemsPerWordFor returns the largest items-per-word that fits totalBins
// distinct linearized indices into a single WordBits-wide word, per the
// ceil(log2(totalBins)) rule: as many whole items as fit.
func ItemsPerWordFor(totalBins uint64) int {
	if totalBins <= 1 {
		return WordBits
	}
	bits := bitsNeeded(totalBins - 1)
	if bits < 1 {
		bits = 1
	}
	items := WordBits / bits
	if items < 1 {
		items = 1
	}
	if items > WordBits {
		items = WordBits
	}
	return items
}

func bitsNeeded(maxValue uint64) int {
	n := 0
	for maxValue > 0 {
		n++
		maxValue >>= 1
	}
	if n == 0 {
		n = 1
	}
	return n
}

// NewColumn constructs a Column over a caller-owned word slice. words
// must have exactly ceil(n/itemsPerWord) elements (0 when n==0).
func NewColumn(words []uint64, n, itemsPerWord, bitsPerItem int, mask uint64) (*Column, error) {
	if n < 0 {
		return nil, errors.NewInvalidArgumentError("bitpack.NewColumn", "n must be nonnegative")
	}
	if itemsPerWord < 1 || bitsPerItem < 1 || itemsPerWord*bitsPerItem > WordBits {
		return nil, errors.NewInvalidLayoutError("bitpack.NewColumn", itemsPerWord, bitsPerItem, WordBits)
	}
	wantWords := wordCount(n, itemsPerWord)
	if len(words) != wantWords {
		return nil, errors.NewInvalidArgumentError("bitpack.NewColumn", "word slice length does not match ceil(n/itemsPerWord)")
	}
	return &Column{
		words:        words,
		n:            n,
		itemsPerWord: itemsPerWord,
		bitsPerItem:  bitsPerItem,
		mask:         mask,
	}, nil
}

func wordCount(n, itemsPerWord int) int {
	if n == 0 {
		return 0
	}
	return (n + itemsPerWord - 1) / itemsPerWord
}

// Len returns the number of instances this column decodes.
func (c *Column) Len() int { return c.n }

// ItemsPerWord returns the configured pack width.
func (c *Column) ItemsPerWord() int { return c.itemsPerWord }

// BitsPerItem returns the bit width of each packed item.
func (c *Column) BitsPerItem() int { return c.bitsPerItem }

// Decode writes exactly Len() bin indices into dst in instance order.
// dst must have capacity >= Len(). It processes floor(n/itemsPerWord)
// full words with a fixed inner loop of itemsPerWord iterations, then
// one final partial word of ((n-1) mod itemsPerWord)+1 iterations — the
// last word's remaining high bits are unspecified padding and are never
// read.
func (c *Column) Decode(dst []int) {
	if c.n == 0 {
		return
	}
	p := c.itemsPerWord
	bits := uint(c.bitsPerItem)
	mask := c.mask

	fullWords := c.n / p
	out := 0
	for w := 0; w < fullWords; w++ {
		word := c.words[w]
		for i := 0; i < p; i++ {
			dst[out] = int(word & mask)
			word >>= bits
			out++
		}
	}
	remaining := c.n - fullWords*p
	if remaining > 0 {
		word := c.words[fullWords]
		for i := 0; i < remaining; i++ {
			dst[out] = int(word & mask)
			word >>= bits
			out++
		}
	}
}

// At decodes the bin index for a single instance. It is O(1) but, unlike
// Decode, does not amortize the per-word shift across neighboring
// instances — callers scanning the whole column should prefer Decode or
// Iterate.
func (c *Column) At(instance int) int {
	word := c.words[instance/c.itemsPerWord]
	shift := uint(instance%c.itemsPerWord) * uint(c.bitsPerItem)
	return int((word >> shift) & c.mask)
}

// Iterate calls fn once per instance in order with its decoded bin
// index, without allocating an output slice. This is the form
// ModelUpdateApplier and InteractionScorer use in their hot loops.
func (c *Column) Iterate(fn func(instance, binLinearized int)) {
	if c.n == 0 {
		return
	}
	p := c.itemsPerWord
	bits := uint(c.bitsPerItem)
	mask := c.mask

	fullWords := c.n / p
	instance := 0
	for w := 0; w < fullWords; w++ {
		word := c.words[w]
		for i := 0; i < p; i++ {
			fn(instance, int(word&mask))
			word >>= bits
			instance++
		}
	}
	remaining := c.n - fullWords*p
	if remaining > 0 {
		word := c.words[fullWords]
		for i := 0; i < remaining; i++ {
			fn(instance, int(word&mask))
			word >>= bits
			instance++
		}
	}
}

// IterateRange calls fn once per instance in [start, end) with its
// decoded bin index. Unlike Iterate it does not amortize the per-word
// shift across the whole column, since the range need not start on a
// word boundary; it exists so callers can split a column into disjoint
// chunks for concurrent accumulation.
func (c *Column) IterateRange(start, end int, fn func(instance, binLinearized int)) {
	for i := start; i < end; i++ {
		fn(i, c.At(i))
	}
}

// Encode packs bins (one linearized tensor index per instance) into a
// fresh word slice using the given layout. It is the inverse of Decode
// and exists primarily to let tests and the outer collaborator build
// Columns without hand-packing bits.
func Encode(bins []int, itemsPerWord, bitsPerItem int) []uint64 {
	n := len(bins)
	words := make([]uint64, wordCount(n, itemsPerWord))
	for i, b := range bins {
		w := i / itemsPerWord
		shift := uint(i%itemsPerWord) * uint(bitsPerItem)
		words[w] |= uint64(b) << shift
	}
	return words
}
