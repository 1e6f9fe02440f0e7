package rules

// Evaluation tracks which stars are already known to fail, so that later
// rules skip them. Only the first Len stars are considered.
type Evaluation struct {
	n     int
	known map[int]struct{}
}

func NewEvaluation(n int) *Evaluation {
	return &Evaluation{n: n, known: make(map[int]struct{})}
}

func (e *Evaluation) Len() int {
	return e.n
}

func (e *Evaluation) IsKnown(index int) bool {
	_, ok := e.known[index]
	return ok
}

func (e *Evaluation) Mark(indices ...int) {
	for _, i := range indices {
		e.known[i] = struct{}{}
	}
}

// Known returns the failing indices in ascending order.
func (e *Evaluation) Known() []int {
	out := make([]int, 0, len(e.known))
	for i := 0; i < e.n; i++ {
		if _, ok := e.known[i]; ok {
			out = append(out, i)
		}
	}
	return out
}

func (e *Evaluation) Empty() bool {
	return len(e.known) == 0
}
