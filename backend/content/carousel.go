package content

// Carousel navigates a fixed number of slides, wrapping around at both ends.
type Carousel struct {
	Len int
}

// Go clamps i into the valid slide indexes.
func (c Carousel) Go(i int) int {
	if c.Len <= 0 || i < 0 {
		return 0
	}
	if i >= c.Len {
		return c.Len - 1
	}
	return i
}

func (c Carousel) Next(i int) int {
	if c.Len <= 0 {
		return 0
	}
	return (c.Go(i) + 1) % c.Len
}

func (c Carousel) Prev(i int) int {
	if c.Len <= 0 {
		return 0
	}
	return (c.Go(i) - 1 + c.Len) % c.Len
}
