package draft

// Card is a single draftable card. Identity is Name; the pool source is
// responsible for never producing duplicate names within one pack.
type Card struct {
	Name     string `json:"name"`
	ImageURL string `json:"url"`
}

// Pack is an ordered sequence of cards circulating among players in one
// round. It only ever shrinks; a pack of length zero is exhausted.
type Pack []Card

// indexOf returns the position of the card named name, or -1.
func (p Pack) indexOf(name string) int {
	for i, c := range p {
		if c.Name == name {
			return i
		}
	}
	return -1
}
