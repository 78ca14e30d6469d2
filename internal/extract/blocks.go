// Package extract holds the two transaction-extraction strategies shared by
// the bank adapters: positional grids over table rows, and block scanning
// over unruled text lines.
package extract

// State is the position of a Blocks scan.
type State int

const (
	// Seeking waits for a transaction-start line.
	Seeking State = iota
	// InBlock collects continuation lines of the open block.
	InBlock
)

func (s State) String() string {
	if s == InBlock {
		return "in-block"
	}
	return "seeking"
}

// Block is one transaction's lines.
type Block[T any] struct {
	// Lead holds lines recaptured from before Head.
	Lead []T
	Head T
	Body []T
}

// Lines returns Lead, Head and Body in document order.
func (b Block[T]) Lines() []T {
	out := make([]T, 0, len(b.Lead)+1+len(b.Body))
	out = append(out, b.Lead...)
	out = append(out, b.Head)
	return append(out, b.Body...)
}

// Blocks partitions lines into transaction blocks.
//
// While seeking, lines are skipped until IsStart matches. In a block, lines
// accumulate until the next start (which opens a new block) or a line that
// IsTerminal matches (which closes the block and returns to seeking).
// Lookbehind moves up to that many lines preceding a start into the new
// block's Lead, taking them from the tail of the previous block or from the
// skipped lines since the last terminal.
type Blocks[T any] struct {
	IsStart    func(T) bool
	IsTerminal func(T) bool
	Lookbehind int
}

// Scan runs the state machine over lines.
func (s Blocks[T]) Scan(lines []T) []Block[T] {
	var (
		out      []Block[T]
		cur      Block[T]
		state    = Seeking
		seekFrom int
	)
	for i, line := range lines {
		switch {
		case s.IsStart(line):
			var lead []T
			if state == InBlock {
				n := min(s.Lookbehind, len(cur.Body))
				lead = append(lead, cur.Body[len(cur.Body)-n:]...)
				cur.Body = cur.Body[:len(cur.Body)-n]
				out = append(out, cur)
			} else if s.Lookbehind > 0 {
				lead = append(lead, lines[max(seekFrom, i-s.Lookbehind):i]...)
			}
			cur = Block[T]{Lead: lead, Head: line}
			state = InBlock

		case s.IsTerminal != nil && s.IsTerminal(line):
			if state == InBlock {
				out = append(out, cur)
				cur = Block[T]{}
				state = Seeking
			}
			seekFrom = i + 1

		case state == InBlock:
			cur.Body = append(cur.Body, line)
		}
	}
	if state == InBlock {
		out = append(out, cur)
	}
	return out
}
